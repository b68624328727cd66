package render

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"selection-engine/internal/scene"
	"selection-engine/internal/selection"
)

// ErrEmptyRegion is returned when a pick region lies entirely off screen.
var ErrEmptyRegion = errors.New("render: pick region is empty")

// PickPass renders colour-id passes of a scene graph into an offscreen target and reads them back.
// Each object is drawn flat in the colour of its pick value for the pass; the background is 0.
// It implements selection.PickRenderer and must be used on the render thread after the window opened.
type PickPass struct {
	graph    *scene.Graph
	viewport *Viewport
	target   rl.RenderTexture2D
	width    int32
	height   int32
}

// NewPickPass returns a pick pass drawing g through vp's camera.
func NewPickPass(g *scene.Graph, vp *Viewport) *PickPass {
	return &PickPass{graph: g, viewport: vp}
}

// ensureTarget (re)allocates the offscreen target when the screen size changed.
func (p *PickPass) ensureTarget() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if p.width == w && p.height == h && rl.IsRenderTextureValid(p.target) {
		return
	}
	if p.width != 0 {
		rl.UnloadRenderTexture(p.target)
	}
	p.target = rl.LoadRenderTexture(w, h)
	p.width, p.height = w, h
}

// RenderPass draws pass and returns the pick values inside region, row-major from its top-left pixel.
func (p *PickPass) RenderPass(pass uint32, region selection.Region) ([]uint32, error) {
	p.ensureTarget()
	if !rl.IsRenderTextureValid(p.target) {
		return nil, fmt.Errorf("render: pick target %dx%d not available", p.width, p.height)
	}
	x0, y0 := max(region.X, 0), max(region.Y, 0)
	x1, y1 := min(region.X+region.Width, int(p.width)), min(region.Y+region.Height, int(p.height))
	if x0 >= x1 || y0 >= y1 {
		return nil, ErrEmptyRegion
	}

	rl.BeginTextureMode(p.target)
	rl.ClearBackground(rl.NewColor(0, 0, 0, 255))
	rl.BeginMode3D(p.viewport.Camera)
	for _, o := range p.graph.Objects() {
		if o.Hidden {
			continue
		}
		v := o.PickValue(pass)
		if v == 0 {
			continue
		}
		drawObject(o, selection.HandleToColor(selection.Handle(v)))
	}
	rl.EndMode3D()
	rl.EndTextureMode()

	img := rl.LoadImageFromTexture(p.target.Texture)
	defer rl.UnloadImage(img)
	// Render textures are stored bottom-up.
	rl.ImageFlipVertical(img)
	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	out := make([]uint32, 0, (x1-x0)*(y1-y0))
	for y := y0; y < y1; y++ {
		row := y * int(img.Width)
		for x := x0; x < x1; x++ {
			out = append(out, uint32(selection.ColorToHandle(colors[row+x])))
		}
	}
	return out, nil
}

// Close releases the offscreen target.
func (p *PickPass) Close() {
	if p.width != 0 {
		rl.UnloadRenderTexture(p.target)
		p.width, p.height = 0, 0
	}
}
