package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"selection-engine/internal/geom"
	"selection-engine/internal/scene"
)

// Viewport is the 3D view of a scene graph: camera, editor grid, primitives and wire boxes.
type Viewport struct {
	Camera      rl.Camera3D
	GridVisible bool
}

// NewViewport returns a viewport with the camera at (10,10,10) looking at the origin and the grid on.
func NewViewport() *Viewport {
	v := &Viewport{GridVisible: true}
	v.Camera.Position = rl.NewVector3(10, 10, 10)
	v.Camera.Target = rl.NewVector3(0, 0, 0)
	v.Camera.Up = rl.NewVector3(0, 1, 0)
	v.Camera.Fovy = 45
	v.Camera.Projection = rl.CameraPerspective
	return v
}

// Update moves the camera while the right mouse button is held, leaving left clicks for picking.
func (v *Viewport) Update() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		rl.UpdateCamera(&v.Camera, rl.CameraFree)
	}
}

// Focus points the camera at the center of b, keeping its viewing direction and backing off so the
// whole box fits.
func (v *Viewport) Focus(b geom.AABB) {
	if !b.IsValid() {
		return
	}
	center := vec3(b.Center())
	dir := rl.Vector3Normalize(rl.Vector3Subtract(v.Camera.Position, v.Camera.Target))
	dist := max(rl.Vector3Length(vec3(b.Size()))*1.5, 2)
	v.Camera.Target = center
	v.Camera.Position = rl.Vector3Add(center, rl.Vector3Scale(dir, dist))
}

// Draw renders the grid, every visible object and every wire box of g.
// Call after ClearBackground and before 2D overlays.
func (v *Viewport) Draw(g *scene.Graph) {
	rl.BeginMode3D(v.Camera)
	if v.GridVisible {
		drawGrid()
	}
	for _, o := range g.Objects() {
		if !o.Hidden {
			drawObject(o, objectColor)
		}
	}
	for _, b := range g.WireBoxes() {
		drawWireBox(b)
	}
	rl.EndMode3D()
}
