package ui

// Rect is a screen-space rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Node is a single UI element: panel, label, or inspector property. It has optional class and id for
// styling, bounds (position and size), text for labels, and an optional value for properties.
// Nodes form a tree; a node belongs to at most one parent.
type Node struct {
	Type   string // "panel", "label", "property", etc.
	Class  string // e.g. "inspector-property"
	ID     string
	Bounds Rect
	Text   string // label text, or property name
	Value  string // property value, shown after the name

	parent   *Node
	children []*Node
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// NewProperty creates an inspector property node showing "name: value".
func NewProperty(name, value string) *Node {
	return &Node{Type: "property", Class: "inspector-property", Text: name, Value: value}
}

// Label returns the text drawn for the node.
func (n *Node) Label() string {
	if n.Type == "property" {
		return n.Text + ": " + n.Value
	}
	return n.Text
}

// SetValue updates a property's displayed value.
func (n *Node) SetValue(v string) {
	n.Value = v
}

// Parent returns the node's parent, nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild appends c, detaching it from any previous parent first.
func (n *Node) AddChild(c *Node) {
	if c == nil || c == n {
		return
	}
	c.Detach()
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c when it is a child of n. Returns whether it was.
func (n *Node) RemoveChild(c *Node) bool {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Detach removes n from its parent. No-op when already detached.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// Walk calls fn for n and every descendant, depth first, with the depth below n.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}
