package ui

const (
	inspectorLineHeight = 24
	inspectorIndent     = 16
	inspectorWidth      = 320
	inspectorMargin     = 12
)

// Inspector is a right-side panel listing the properties of the current selection.
// Selection handlers insert property nodes under Root; the inspector only lays them out.
type Inspector struct {
	panel *Node
	title *Node
	root  *Node
}

// NewInspector creates an Inspector with an empty property tree.
func NewInspector() *Inspector {
	return &Inspector{
		panel: NewNode("panel", "inspector", "", ""),
		title: NewNode("label", "inspector-title", "", "Inspector"),
		root:  NewNode("panel", "inspector-properties", "selection", ""),
	}
}

// Root returns the node selection handlers parent their properties under.
func (in *Inspector) Root() *Node {
	return in.root
}

// Len returns the number of property nodes currently in the tree.
func (in *Inspector) Len() int {
	n := 0
	in.root.Walk(func(_ *Node, depth int) {
		if depth > 0 {
			n++
		}
	})
	return n
}

// AppendNodes lays out the panel, title and every property (indented by depth) and appends them to dst
// when visible is true. When visible is false, dst is returned unchanged. screenW positions the panel on
// the right edge.
func (in *Inspector) AppendNodes(dst []*Node, visible bool, screenW float32) []*Node {
	if !visible {
		return dst
	}
	x := screenW - inspectorWidth - inspectorMargin
	y := float32(inspectorMargin)
	in.title.Bounds = Rect{X: x, Y: y, Width: inspectorWidth, Height: inspectorLineHeight}
	y += inspectorLineHeight

	var props []*Node
	in.root.Walk(func(n *Node, depth int) {
		if depth == 0 {
			return
		}
		indent := float32((depth - 1) * inspectorIndent)
		n.Bounds = Rect{X: x + indent, Y: y, Width: inspectorWidth - indent, Height: inspectorLineHeight}
		y += inspectorLineHeight
		props = append(props, n)
	})
	in.panel.Bounds = Rect{X: x, Y: inspectorMargin, Width: inspectorWidth, Height: y - inspectorMargin}

	dst = append(dst, in.panel, in.title)
	return append(dst, props...)
}
