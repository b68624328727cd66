package geom

import "github.com/chewxy/math32"

// Vec3 is a float32 3D vector. Same layout as the [3]float32 the physics and scene code passes around.
type Vec3 [3]float32

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// AABB is an axis-aligned bounding box. The zero value is the empty box: Merge treats it as
// "no bounds yet" so callers can fold a slice of boxes starting from AABB{}.
type AABB struct {
	Min   Vec3
	Max   Vec3
	valid bool
}

// NewAABB returns the box spanning min..max. Components are reordered so Min <= Max on every axis.
func NewAABB(min, max Vec3) AABB {
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}
	return AABB{Min: min, Max: max, valid: true}
}

// FromCenterScale returns the box centered on center with the given full extents.
// A zero scale component counts as 1, matching how primitives are drawn.
func FromCenterScale(center, scale Vec3) AABB {
	var half Vec3
	for i := 0; i < 3; i++ {
		s := scale[i]
		if s == 0 {
			s = 1
		}
		half[i] = math32.Abs(s) * 0.5
	}
	return NewAABB(center.Sub(half), center.Add(half))
}

// IsValid reports whether the box holds any bounds.
func (b AABB) IsValid() bool {
	return b.valid
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the full extents of the box.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Merge returns the smallest box containing both b and o. Invalid boxes are ignored.
func (b AABB) Merge(o AABB) AABB {
	if !o.valid {
		return b
	}
	if !b.valid {
		return o
	}
	var out AABB
	out.valid = true
	for i := 0; i < 3; i++ {
		out.Min[i] = math32.Min(b.Min[i], o.Min[i])
		out.Max[i] = math32.Max(b.Max[i], o.Max[i])
	}
	return out
}

// Inflate grows the box by pad on every side. Invalid boxes stay invalid.
func (b AABB) Inflate(pad float32) AABB {
	if !b.valid {
		return b
	}
	p := Vec3{pad, pad, pad}
	return NewAABB(b.Min.Sub(p), b.Max.Add(p))
}

// Translate moves the box by d.
func (b AABB) Translate(d Vec3) AABB {
	if !b.valid {
		return b
	}
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d), valid: true}
}

// Overlap returns the penetration depth and axis (0=X, 1=Y, 2=Z) of the minimum overlap between a and b.
// If the boxes do not overlap, returns (0, -1).
func Overlap(a, b AABB) (depth float32, axis int) {
	if !a.valid || !b.valid {
		return 0, -1
	}
	var o Vec3
	for i := 0; i < 3; i++ {
		o[i] = math32.Min(a.Max[i], b.Max[i]) - math32.Max(a.Min[i], b.Min[i])
		if o[i] <= 0 {
			return 0, -1
		}
	}
	depth, axis = o[0], 0
	if o[1] < depth {
		depth, axis = o[1], 1
	}
	if o[2] < depth {
		depth, axis = o[2], 2
	}
	return depth, axis
}

// MergeAll folds boxes into one. The result is invalid when no box is valid.
func MergeAll(boxes []AABB) AABB {
	var out AABB
	for _, b := range boxes {
		out = out.Merge(b)
	}
	return out
}
