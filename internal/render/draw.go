package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"selection-engine/internal/geom"
	"selection-engine/internal/scene"
)

const (
	cylinderSlices = 16
	pointRings     = 6
)

// objectColor is the shaded colour of scene primitives.
var objectColor = rl.NewColor(128, 128, 128, 255)

func vec3(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

func boundingBox(b geom.AABB) rl.BoundingBox {
	return rl.NewBoundingBox(vec3(b.Min), vec3(b.Max))
}

// drawObject draws o as a flat primitive in col. Position is the primitive's center; a zero scale
// component counts as 1. Must be called between BeginMode3D and EndMode3D.
func drawObject(o *scene.Object, col color.RGBA) {
	size := o.WorldBounds().Size()
	pos := vec3(o.Position())
	switch o.Kind {
	case scene.KindCube:
		rl.DrawCubeV(pos, vec3(size), col)
	case scene.KindSphere:
		rl.DrawSphere(pos, maxComponent(size)*0.5, col)
	case scene.KindCylinder:
		r := max(size[0], size[2]) * 0.5
		base := rl.NewVector3(pos.X, pos.Y-size[1]*0.5, pos.Z)
		rl.DrawCylinder(base, r, r, size[1], cylinderSlices, col)
	case scene.KindPlane:
		rl.DrawPlane(pos, rl.NewVector2(size[0], size[2]), col)
	case scene.KindPoint:
		rl.DrawSphereEx(pos, maxComponent(size)*0.5, pointRings, pointRings, col)
	}
}

func maxComponent(v geom.Vec3) float32 {
	return max(v[0], v[1], v[2])
}

// drawWireBox outlines b in its material colour.
func drawWireBox(b *scene.WireBox) {
	if w := b.Material.LineWidth; w > 0 {
		rl.SetLineWidth(w)
		defer rl.SetLineWidth(1)
	}
	rl.DrawBoundingBox(boundingBox(b.WorldAABB()), b.Material.Color)
}
