package scene

import (
	"testing"

	"github.com/stretchr/testify/require"

	"selection-engine/internal/geom"
	"selection-engine/internal/materials"
)

type recordingListener struct {
	moved     []*Object
	destroyed []*Object
	onMoved   func(*Object)
}

func (l *recordingListener) ObjectMoved(o *Object) {
	l.moved = append(l.moved, o)
	if l.onMoved != nil {
		l.onMoved(o)
	}
}

func (l *recordingListener) ObjectDestroyed(o *Object) {
	l.destroyed = append(l.destroyed, o)
}

func TestCreateAndDestroyNodes(t *testing.T) {
	g := NewGraph()
	a := g.CreateSceneNode(nil)
	b := g.CreateSceneNode(a)
	require.Equal(t, 2, g.LiveNodes())
	require.Equal(t, g.Root(), a.Parent())
	require.Equal(t, []*Node{b}, a.Children())

	obj := g.CreateObject(b, "cube", KindCube, geom.Vec3{}, geom.Vec3{1, 1, 1})
	box := g.CreateWireBox(b, geom.NewAABB(geom.Vec3{}, geom.Vec3{1, 1, 1}), materials.Material{Name: "red"})
	require.Equal(t, 1, g.LiveObjects())
	require.Equal(t, 1, g.LiveBoxes())

	g.DestroySceneNode(a)
	require.Zero(t, g.LiveNodes())
	require.Zero(t, g.LiveObjects())
	require.Zero(t, g.LiveBoxes())
	require.True(t, a.Destroyed())
	require.True(t, b.Destroyed())
	require.True(t, obj.Destroyed())
	require.True(t, box.Destroyed())
	require.Empty(t, g.Root().Children())

	g.DestroySceneNode(a)
	g.DestroySceneNode(g.Root())
	require.False(t, g.Root().Destroyed())
}

func TestObjectListeners(t *testing.T) {
	g := NewGraph()
	o := g.CreateObject(nil, "o", KindSphere, geom.Vec3{}, geom.Vec3{1, 1, 1})
	l := &recordingListener{}
	h := o.AddListener(l)
	require.False(t, h.IsZero())
	require.Equal(t, 1, o.ListenerCount())

	o.SetPosition(geom.Vec3{1, 0, 0})
	o.SetPosition(geom.Vec3{1, 0, 0})
	o.Translate(geom.Vec3{0, 1, 0})
	o.SetScale(geom.Vec3{2, 2, 2})
	require.Len(t, l.moved, 3)
	require.Equal(t, geom.Vec3{1, 1, 0}, o.Position())

	o.RemoveListener(h)
	o.RemoveListener(h)
	require.Zero(t, o.ListenerCount())
	o.Translate(geom.Vec3{1, 0, 0})
	require.Len(t, l.moved, 3)
}

func TestDestroyObjectNotifiesOnce(t *testing.T) {
	g := NewGraph()
	o := g.CreateObject(nil, "o", KindCube, geom.Vec3{}, geom.Vec3{1, 1, 1})
	l := &recordingListener{}
	o.AddListener(l)

	g.DestroyObject(o)
	g.DestroyObject(o)
	require.Equal(t, []*Object{o}, l.destroyed)
	require.Zero(t, o.ListenerCount())
	require.Nil(t, o.Node())

	require.True(t, o.AddListener(l).IsZero())
	o.SetPosition(geom.Vec3{5, 5, 5})
	require.Empty(t, l.moved)
}

func TestListenerMayRemoveOthersDuringNotify(t *testing.T) {
	g := NewGraph()
	o := g.CreateObject(nil, "o", KindCube, geom.Vec3{}, geom.Vec3{1, 1, 1})
	second := &recordingListener{}
	var secondHandle ListenerHandle
	first := &recordingListener{onMoved: func(o *Object) { o.RemoveListener(secondHandle) }}
	o.AddListener(first)
	secondHandle = o.AddListener(second)

	o.Translate(geom.Vec3{1, 0, 0})
	require.Len(t, first.moved, 1)
	require.Empty(t, second.moved)
}

func TestWireBoxWorldAABB(t *testing.T) {
	g := NewGraph()
	n := g.CreateSceneNode(nil)
	n.SetPosition(geom.Vec3{10, 0, 0})
	b := g.CreateWireBox(n, geom.NewAABB(geom.Vec3{-1, -1, -1}, geom.Vec3{1, 1, 1}), materials.Material{})
	require.Equal(t, geom.NewAABB(geom.Vec3{9, -1, -1}, geom.Vec3{11, 1, 1}), b.WorldAABB())
	require.Equal(t, []*WireBox{b}, g.WireBoxes())
	require.Equal(t, []*WireBox{b}, n.Boxes())

	g.DestroyWireBox(b)
	g.DestroyWireBox(b)
	require.Zero(t, g.LiveBoxes())
	require.Empty(t, n.Boxes())
}

func TestWalkObjects(t *testing.T) {
	g := NewGraph()
	a := g.CreateSceneNode(nil)
	b := g.CreateSceneNode(a)
	o1 := g.CreateObject(a, "o1", KindCube, geom.Vec3{}, geom.Vec3{})
	o2 := g.CreateObject(b, "o2", KindCube, geom.Vec3{}, geom.Vec3{})
	g.CreateObject(nil, "other", KindCube, geom.Vec3{}, geom.Vec3{})

	var seen []*Object
	a.WalkObjects(func(o *Object) { seen = append(seen, o) })
	require.Equal(t, []*Object{o1, o2}, seen)
	require.Len(t, g.Objects(), 3)
}

func TestContextMaterial(t *testing.T) {
	c := NewContext(NewGraph(), nil)
	m, ok := c.Material("cyan")
	require.True(t, ok)
	require.Equal(t, "cyan", m.Name)

	m, ok = c.Material("missing")
	require.False(t, ok)
	require.Equal(t, materials.FallbackName, m.Name)
}

func TestObjectWorldBounds(t *testing.T) {
	g := NewGraph()
	o := g.CreateObject(nil, "o", KindCube, geom.Vec3{1, 2, 3}, geom.Vec3{2, 2, 2})
	require.Equal(t, geom.NewAABB(geom.Vec3{0, 1, 2}, geom.Vec3{2, 3, 4}), o.WorldBounds())
}

func TestPickValue(t *testing.T) {
	g := NewGraph()
	o := g.CreateObject(nil, "p", KindPoint, geom.Vec3{}, geom.Vec3{})
	o.PickHandle = 7
	o.SubID = 0x0102_0000_0003
	require.Equal(t, uint32(7), o.PickValue(0))
	require.Equal(t, uint32(7), o.PickValue(1))

	o.SubIDColoring = true
	require.Equal(t, uint32(7), o.PickValue(0))
	require.Equal(t, uint32(3), o.PickValue(1))
	require.Equal(t, uint32(0x010200), o.PickValue(2))
	require.Equal(t, uint32(0), o.PickValue(3))
}
