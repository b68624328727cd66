package scene

import (
	"selection-engine/internal/geom"
	"selection-engine/internal/materials"
)

// Node groups objects, wire boxes and child nodes. Position is the node's offset in world space;
// wire boxes are drawn relative to it, objects carry their own world position.
type Node struct {
	id        uint64
	graph     *Graph
	parent    *Node
	children  []*Node
	objects   []*Object
	boxes     []*WireBox
	position  geom.Vec3
	destroyed bool
}

// ID returns the node's graph-unique id.
func (n *Node) ID() uint64 { return n.id }

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Objects returns a copy of the objects attached directly to the node.
func (n *Node) Objects() []*Object {
	out := make([]*Object, len(n.objects))
	copy(out, n.objects)
	return out
}

// Boxes returns a copy of the wire boxes attached to the node.
func (n *Node) Boxes() []*WireBox {
	out := make([]*WireBox, len(n.boxes))
	copy(out, n.boxes)
	return out
}

// Position returns the node's world offset.
func (n *Node) Position() geom.Vec3 { return n.position }

// SetPosition moves the node.
func (n *Node) SetPosition(p geom.Vec3) { n.position = p }

// Destroyed reports whether the node was removed from its graph.
func (n *Node) Destroyed() bool { return n.destroyed }

// WalkObjects calls fn for every object attached to n or any descendant, depth first.
func (n *Node) WalkObjects(fn func(*Object)) {
	for _, o := range n.Objects() {
		fn(o)
	}
	for _, c := range n.Children() {
		c.WalkObjects(fn)
	}
}

// WireBox is a wireframe bounding-box visual attached to a node.
type WireBox struct {
	id        uint64
	node      *Node
	aabb      geom.AABB
	Material  materials.Material
	destroyed bool
}

// ID returns the box's graph-unique id.
func (b *WireBox) ID() uint64 { return b.id }

// Node returns the node the box is attached to, nil once destroyed.
func (b *WireBox) Node() *Node { return b.node }

// LocalAABB returns the box extents relative to its node.
func (b *WireBox) LocalAABB() geom.AABB { return b.aabb }

// WorldAABB returns the box extents in world space.
func (b *WireBox) WorldAABB() geom.AABB {
	if b.node == nil {
		return b.aabb
	}
	return b.aabb.Translate(b.node.position)
}

// Destroyed reports whether the box was released.
func (b *WireBox) Destroyed() bool { return b.destroyed }
