package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"selection-engine/internal/ui"
)

const (
	nodeFontSize = 16
	nodePadding  = 4
)

var (
	panelColor    = rl.NewColor(20, 22, 28, 220)
	titleColor    = rl.NewColor(230, 230, 230, 255)
	propertyColor = rl.NewColor(180, 200, 220, 255)
)

// DrawNodes draws laid-out UI nodes in order: panels as filled rectangles, labels and properties as
// text inside their bounds. Call after the 3D pass.
func DrawNodes(nodes []*ui.Node) {
	for _, n := range nodes {
		r := rl.NewRectangle(n.Bounds.X, n.Bounds.Y, n.Bounds.Width, n.Bounds.Height)
		switch n.Type {
		case "panel":
			rl.DrawRectangleRec(r, panelColor)
		case "label":
			rl.DrawText(n.Label(), int32(r.X)+nodePadding, int32(r.Y)+nodePadding, nodeFontSize+2, titleColor)
		default:
			rl.DrawText(n.Label(), int32(r.X)+nodePadding, int32(r.Y)+nodePadding, nodeFontSize, propertyColor)
		}
	}
}
