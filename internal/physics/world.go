package physics

import (
	"selection-engine/internal/geom"
	"selection-engine/internal/scene"
)

// World holds a set of bodies and runs a simple 3D physics step: gravity, integration, AABB collision.
// Bodies bound to scene objects write their positions back after every step.
type World struct {
	Gravity geom.Vec3
	Bodies  []*Body

	bound map[*Body]*scene.Object
}

// NewWorld returns a new physics world with default gravity (0, -9.8, 0). The scene is Y-up.
func NewWorld() *World {
	return &World{
		Gravity: geom.Vec3{0, -9.8, 0},
		bound:   make(map[*Body]*scene.Object),
	}
}

// SetGravity sets the gravity vector.
func (w *World) SetGravity(g geom.Vec3) {
	w.Gravity = g
}

// AddBody appends a body to the world. Order is preserved.
func (w *World) AddBody(b *Body) {
	w.Bodies = append(w.Bodies, b)
}

// Bind adds b to the world (if it is not already in it) and makes o follow it. The body starts at
// the object's current position.
func (w *World) Bind(o *scene.Object, b *Body) {
	if o == nil || b == nil {
		return
	}
	if _, ok := w.bound[b]; !ok && !w.has(b) {
		w.AddBody(b)
	}
	b.Position = o.Position()
	w.bound[b] = o
}

// Unbind stops b from driving its object. The body stays in the world.
func (w *World) Unbind(b *Body) {
	delete(w.bound, b)
}

// Object returns the scene object bound to b.
func (w *World) Object(b *Body) (*scene.Object, bool) {
	o, ok := w.bound[b]
	return o, ok
}

func (w *World) has(b *Body) bool {
	for _, x := range w.Bodies {
		if x == b {
			return true
		}
	}
	return false
}

// Step advances the simulation by dt seconds: apply gravity, integrate, then AABB collisions, then
// move bound objects. Objects destroyed since the last step are unbound.
// No global floor: dynamic bodies can fall until they hit another body (e.g. a static plane).
func (w *World) Step(dt float32) {
	for _, b := range w.Bodies {
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	for i := 0; i < len(w.Bodies); i++ {
		bi := w.Bodies[i]
		for j := i + 1; j < len(w.Bodies); j++ {
			resolve(bi, w.Bodies[j])
		}
	}

	for _, b := range w.Bodies {
		o, ok := w.bound[b]
		if !ok {
			continue
		}
		if o.Destroyed() {
			delete(w.bound, b)
			continue
		}
		o.SetPosition(b.Position)
	}
}

// resolve pushes an overlapping pair apart along the axis of minimum penetration, away from each
// other's centers. Static bodies don't move.
func resolve(bi, bj *Body) {
	if bi.Static && bj.Static {
		return
	}
	depth, axis := geom.Overlap(bi.AABB(), bj.AABB())
	if axis < 0 {
		return
	}
	if bj.Position[axis] < bi.Position[axis] {
		depth = -depth
	}
	var moveI, moveJ float32
	switch {
	case bi.Static:
		moveJ = depth
	case bj.Static:
		moveI = -depth
	default:
		total := bi.Mass + bj.Mass
		moveI = -depth * (bj.Mass / total)
		moveJ = depth * (bi.Mass / total)
	}
	bi.Position[axis] += moveI
	bj.Position[axis] += moveJ
	if !bi.Static {
		bi.Velocity[axis] = 0
	}
	if !bj.Static {
		bj.Velocity[axis] = 0
	}
}
