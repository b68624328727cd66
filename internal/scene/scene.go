package scene

import (
	"sort"

	"selection-engine/internal/geom"
	"selection-engine/internal/materials"
)

// Graph owns every scene node, movable object and wire box of one scene.
// It is driven from the render loop and is not safe for concurrent use.
type Graph struct {
	root    *Node
	nextID  uint64
	nodes   map[uint64]*Node
	objects map[uint64]*Object
	boxes   map[uint64]*WireBox
}

// NewGraph returns a graph holding only the root node.
func NewGraph() *Graph {
	g := &Graph{
		nodes:   make(map[uint64]*Node),
		objects: make(map[uint64]*Object),
		boxes:   make(map[uint64]*WireBox),
	}
	g.root = &Node{id: g.allocID(), graph: g}
	return g
}

func (g *Graph) allocID() uint64 {
	g.nextID++
	return g.nextID
}

// Root returns the root node. It cannot be destroyed.
func (g *Graph) Root() *Node {
	return g.root
}

// CreateSceneNode creates a node under parent (the root when parent is nil).
func (g *Graph) CreateSceneNode(parent *Node) *Node {
	if parent == nil || parent.graph != g || parent.destroyed {
		parent = g.root
	}
	n := &Node{id: g.allocID(), graph: g, parent: parent}
	parent.children = append(parent.children, n)
	g.nodes[n.id] = n
	return n
}

// DestroySceneNode destroys n, its descendants, and every object and wire box attached to them.
// Destroyed objects notify their listeners first. Destroying the root or an already destroyed node is a no-op.
func (g *Graph) DestroySceneNode(n *Node) {
	if n == nil || n == g.root || n.graph != g || n.destroyed {
		return
	}
	for len(n.children) > 0 {
		g.DestroySceneNode(n.children[len(n.children)-1])
	}
	for len(n.objects) > 0 {
		g.DestroyObject(n.objects[len(n.objects)-1])
	}
	for len(n.boxes) > 0 {
		g.DestroyWireBox(n.boxes[len(n.boxes)-1])
	}
	if n.parent != nil {
		n.parent.children = removeNode(n.parent.children, n)
	}
	n.parent = nil
	n.destroyed = true
	delete(g.nodes, n.id)
}

// CreateObject creates a movable object attached to node (the root when node is nil).
func (g *Graph) CreateObject(node *Node, name string, kind Kind, position, scale geom.Vec3) *Object {
	if node == nil || node.graph != g || node.destroyed {
		node = g.root
	}
	o := &Object{
		id:       g.allocID(),
		Name:     name,
		Kind:     kind,
		graph:    g,
		node:     node,
		position: position,
		scale:    scale,
	}
	node.objects = append(node.objects, o)
	g.objects[o.id] = o
	return o
}

// DestroyObject notifies the object's listeners, drops them and removes the object from the graph.
// Destroying an object twice is a no-op.
func (g *Graph) DestroyObject(o *Object) {
	if o == nil || o.graph != g || o.destroyed {
		return
	}
	o.destroyed = true
	for _, e := range o.snapshotListeners() {
		if o.hasListener(e.handle) {
			e.listener.ObjectDestroyed(o)
		}
	}
	o.listeners = nil
	if o.node != nil {
		o.node.objects = removeObject(o.node.objects, o)
	}
	o.node = nil
	delete(g.objects, o.id)
}

// CreateWireBox attaches a wireframe box to node. aabb is in the node's local space.
func (g *Graph) CreateWireBox(node *Node, aabb geom.AABB, material materials.Material) *WireBox {
	if node == nil || node.graph != g || node.destroyed {
		node = g.root
	}
	b := &WireBox{id: g.allocID(), node: node, aabb: aabb, Material: material}
	node.boxes = append(node.boxes, b)
	g.boxes[b.id] = b
	return b
}

// DestroyWireBox detaches and releases b. Destroying a box twice is a no-op.
func (g *Graph) DestroyWireBox(b *WireBox) {
	if b == nil || b.destroyed {
		return
	}
	if _, ok := g.boxes[b.id]; !ok {
		return
	}
	if b.node != nil {
		b.node.boxes = removeBox(b.node.boxes, b)
	}
	b.node = nil
	b.destroyed = true
	delete(g.boxes, b.id)
}

// LiveNodes returns the number of nodes besides the root.
func (g *Graph) LiveNodes() int {
	return len(g.nodes)
}

// LiveObjects returns the number of objects not yet destroyed.
func (g *Graph) LiveObjects() int {
	return len(g.objects)
}

// LiveBoxes returns the number of wire boxes not yet destroyed.
func (g *Graph) LiveBoxes() int {
	return len(g.boxes)
}

// Objects returns every live object in creation order.
func (g *Graph) Objects() []*Object {
	out := make([]*Object, 0, len(g.objects))
	for _, o := range g.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// WireBoxes returns every live wire box in creation order.
func (g *Graph) WireBoxes() []*WireBox {
	out := make([]*WireBox, 0, len(g.boxes))
	for _, b := range g.boxes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func removeNode(s []*Node, n *Node) []*Node {
	for i, c := range s {
		if c == n {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeObject(s []*Object, o *Object) []*Object {
	for i, c := range s {
		if c == o {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeBox(s []*WireBox, b *WireBox) []*WireBox {
	for i, c := range s {
		if c == b {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
