package selection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"selection-engine/internal/geom"
	"selection-engine/internal/interact"
	"selection-engine/internal/scene"
	"selection-engine/internal/ui"
)

// pixelRenderer is a software pick pass: each pixel shows one object (or nothing) and yields that
// object's pick value for the pass.
type pixelRenderer struct {
	pixels []*scene.Object
	passes []uint32
	err    error
	log    *[]string
}

func (r *pixelRenderer) RenderPass(pass uint32, _ Region) ([]uint32, error) {
	r.passes = append(r.passes, pass)
	if r.log != nil {
		*r.log = append(*r.log, fmt.Sprintf("render %d", pass))
	}
	if r.err != nil {
		return nil, r.err
	}
	out := make([]uint32, len(r.pixels))
	for i, o := range r.pixels {
		if o != nil && !o.Destroyed() && !o.Hidden {
			out[i] = o.PickValue(pass)
		}
	}
	return out, nil
}

// scriptedRenderer returns fixed pixel values per pass.
type scriptedRenderer map[uint32][]uint32

func (r scriptedRenderer) RenderPass(pass uint32, _ Region) ([]uint32, error) {
	return r[pass], nil
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *scene.Context) {
	t.Helper()
	ctx := scene.NewContext(scene.NewGraph(), nil)
	return NewManager(ctx, zerolog.Nop(), opts...), ctx
}

func pickable(ctx *scene.Context, h *Handler, name string, pos geom.Vec3) *scene.Object {
	o := ctx.CreateObject(nil, name, scene.KindCube, pos, geom.Vec3{1, 1, 1})
	o.PickHandle = uint32(h.Handle())
	h.AddTrackedObject(o)
	return o
}

func TestHandleAllocation(t *testing.T) {
	m, _ := newTestManager(t, WithMaxHandle(3))
	h1, err := m.NewHandler(Behavior{})
	require.NoError(t, err)
	h2, err := m.NewHandler(Behavior{})
	require.NoError(t, err)
	h3, err := m.NewHandler(Behavior{})
	require.NoError(t, err)
	require.Equal(t, []Handle{1, 2, 3}, []Handle{h1.Handle(), h2.Handle(), h3.Handle()})

	_, err = m.NewHandler(Behavior{})
	require.ErrorIs(t, err, ErrHandlesExhausted)

	h2.Destroy()
	require.Equal(t, 2, m.Len())
	_, ok := m.Handler(2)
	require.False(t, ok)

	h4, err := m.NewHandler(Behavior{})
	require.NoError(t, err)
	require.Equal(t, Handle(2), h4.Handle())
	got, ok := m.Handler(2)
	require.True(t, ok)
	require.Same(t, h4, got)
}

func TestWithMaxHandleClamps(t *testing.T) {
	m, _ := newTestManager(t, WithMaxHandle(0))
	require.Equal(t, MaxHandle, m.maxHandle)
}

func TestHandlerTrackedMaterialFromManager(t *testing.T) {
	m, ctx := newTestManager(t, WithTrackedBoxMaterial("green"))
	h, err := m.NewHandler(ObjectBounds())
	require.NoError(t, err)
	o := pickable(ctx, h, "o", geom.Vec3{})
	h.CreateBox(BoxKey{Handle: h.Handle()}, o.WorldBounds(), "red")
	o.Translate(geom.Vec3{1, 0, 0})

	e, ok := h.Box(BoxKey{Handle: h.Handle()})
	require.True(t, ok)
	require.Equal(t, "green", e.Box.Material.Name)
}

func TestPickSinglePass(t *testing.T) {
	m, ctx := newTestManager(t)
	a, _ := m.NewHandler(Behavior{})
	b, _ := m.NewHandler(Behavior{})
	oa := pickable(ctx, a, "a", geom.Vec3{})
	ob := pickable(ctx, b, "b", geom.Vec3{2, 0, 0})
	stray := ctx.CreateObject(nil, "stray", scene.KindCube, geom.Vec3{}, geom.Vec3{1, 1, 1})
	stray.PickHandle = 999

	r := &pixelRenderer{pixels: []*scene.Object{oa, nil, oa, ob, stray, oa}}
	p, err := m.Pick(r, Region{Width: 6, Height: 1})
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, r.passes)
	require.Equal(t, []BoxKey{{a.Handle(), 0}, {b.Handle(), 0}}, p.Keys())
	require.Equal(t, 3, p[a.Handle()].PixelCount)
	require.Equal(t, 1, p[b.Handle()].PixelCount)
}

func TestPickAdditionalPassesResolveSubIDs(t *testing.T) {
	m, ctx := newTestManager(t)
	plain, _ := m.NewHandler(Behavior{})
	op := pickable(ctx, plain, "plain", geom.Vec3{})

	cloud, _ := m.NewHandler(Behavior{})
	points := make([]*scene.Object, 3)
	for i := range points {
		points[i] = ctx.CreateObject(nil, fmt.Sprintf("p%d", i), scene.KindPoint, geom.Vec3{float32(i), 0, 0}, geom.Vec3{0.1, 0.1, 0.1})
		points[i].PickHandle = uint32(cloud.Handle())
	}
	cloud.behavior = PointCloud(points, "yellow")

	r := &pixelRenderer{pixels: []*scene.Object{points[0], op, points[2], nil, points[2]}}
	p, err := m.Pick(r, Region{Width: 5, Height: 1})
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, r.passes)
	require.Equal(t, []BoxKey{
		{plain.Handle(), 0},
		{cloud.Handle(), 1},
		{cloud.Handle(), 3},
	}, p.Keys())
	require.Equal(t, 3, p[cloud.Handle()].PixelCount)
	for _, pt := range points {
		require.False(t, pt.SubIDColoring)
	}
}

func TestPickPassOrdering(t *testing.T) {
	var log []string
	hooks := Behavior{
		NeedsAdditionalRenderPass: func(h *Handler, pass uint32) bool { return pass <= 2 },
		PreRenderPass:             func(h *Handler, pass uint32) { log = append(log, fmt.Sprintf("pre %d", pass)) },
		PostRenderPass:            func(h *Handler, pass uint32) { log = append(log, fmt.Sprintf("post %d", pass)) },
	}
	m, ctx := newTestManager(t)
	h, _ := m.NewHandler(hooks)
	o := pickable(ctx, h, "o", geom.Vec3{})

	r := &pixelRenderer{pixels: []*scene.Object{o}, log: &log}
	_, err := m.Pick(r, Region{Width: 1, Height: 1})
	require.NoError(t, err)
	require.Equal(t, []string{
		"pre 0", "render 0", "post 0",
		"pre 1", "render 1", "post 1",
		"pre 2", "render 2", "post 2",
	}, log)
}

func TestPickFoldsPassOnlyForHandlersAskingForIt(t *testing.T) {
	m, _ := newTestManager(t)
	a, _ := m.NewHandler(Behavior{
		NeedsAdditionalRenderPass: func(_ *Handler, pass uint32) bool { return pass == 1 },
	})
	b, _ := m.NewHandler(Behavior{
		NeedsAdditionalRenderPass: func(_ *Handler, pass uint32) bool { return pass <= 2 },
	})

	r := scriptedRenderer{
		0: {uint32(a.Handle()), uint32(b.Handle())},
		1: {5, 6},
		2: {uint32(a.Handle()), 1},
	}
	p, err := m.Pick(r, Region{Width: 2, Height: 1})
	require.NoError(t, err)
	require.Equal(t, []BoxKey{
		{a.Handle(), 5},
		{b.Handle(), 1<<scene.PassBits | 6},
	}, p.Keys())
}

func TestPickStopsAtMaxAdditionalPasses(t *testing.T) {
	m, ctx := newTestManager(t)
	h, _ := m.NewHandler(Behavior{
		NeedsAdditionalRenderPass: func(*Handler, uint32) bool { return true },
	})
	o := pickable(ctx, h, "o", geom.Vec3{})

	r := &pixelRenderer{pixels: []*scene.Object{o}}
	_, err := m.Pick(r, Region{Width: 1, Height: 1})
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1, 2, 3}, r.passes)
}

func TestPickNoHitSkipsAdditionalPasses(t *testing.T) {
	m, _ := newTestManager(t)
	_, _ = m.NewHandler(Behavior{
		NeedsAdditionalRenderPass: func(*Handler, uint32) bool { return true },
	})
	r := &pixelRenderer{pixels: []*scene.Object{nil, nil}}
	p, err := m.Pick(r, Region{Width: 2, Height: 1})
	require.NoError(t, err)
	require.Empty(t, p)
	require.Equal(t, []uint32{0}, r.passes)
}

func TestPickRendererError(t *testing.T) {
	var post int
	m, _ := newTestManager(t)
	_, _ = m.NewHandler(Behavior{PostRenderPass: func(*Handler, uint32) { post++ }})
	boom := errors.New("boom")

	_, err := m.Pick(&pixelRenderer{err: boom}, Region{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, post)
}

func TestSelectCreatesAndDestroysProperties(t *testing.T) {
	m, ctx := newTestManager(t)
	in := ui.NewInspector()
	m.SetPropertyRoot(in.Root())

	var selected, deselected []Handle
	track := Behavior{
		OnSelect:   func(h *Handler, _ Picked) { selected = append(selected, h.Handle()) },
		OnDeselect: func(h *Handler, _ Picked) { deselected = append(deselected, h.Handle()) },
	}
	a, _ := m.NewHandler(track.With(ObjectProperties()))
	b, _ := m.NewHandler(track.With(ObjectProperties()))
	pickable(ctx, a, "a", geom.Vec3{})
	pickable(ctx, b, "b", geom.Vec3{})

	pa := NewPicked()
	pa.Add(a.Handle(), 0)
	m.Select(pa)
	require.Equal(t, []Handle{a.Handle()}, selected)
	require.Len(t, a.Properties(), 1)
	require.Len(t, in.Root().Children(), 1)

	m.Select(pa)
	require.Len(t, selected, 1)

	pb := NewPicked()
	pb.Add(b.Handle(), 0)
	m.Select(pb)
	require.Equal(t, []Handle{a.Handle()}, deselected)
	require.Equal(t, []Handle{a.Handle(), b.Handle()}, selected)
	require.Empty(t, a.Properties())
	require.Len(t, b.Properties(), 1)
	require.Equal(t, []Handle{b.Handle()}, m.Selection().Handles())

	m.AddSelection(pa)
	require.Equal(t, []Handle{a.Handle(), b.Handle()}, m.Selection().Handles())
	require.Len(t, in.Root().Children(), 2)

	m.ClearSelection()
	require.Empty(t, m.Selection())
	require.Empty(t, in.Root().Children())
	require.Equal(t, 0, in.Len())
}

func TestSelectIgnoresUnknownHandles(t *testing.T) {
	m, _ := newTestManager(t)
	p := NewPicked()
	p.Add(77, 0)
	m.Select(p)
	require.Empty(t, m.Selection())
}

func TestPointCloudSelectionIsPerSubID(t *testing.T) {
	m, ctx := newTestManager(t)
	root := ui.NewNode("panel", "", "", "")
	m.SetPropertyRoot(root)

	cloud, _ := m.NewHandler(Behavior{})
	points := []*scene.Object{
		ctx.CreateObject(nil, "p1", scene.KindPoint, geom.Vec3{0, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
		ctx.CreateObject(nil, "p2", scene.KindPoint, geom.Vec3{1, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
		ctx.CreateObject(nil, "p3", scene.KindPoint, geom.Vec3{2, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
	}
	cloud.behavior = PointCloud(points, "yellow")

	p := NewPicked()
	p.Add(cloud.Handle(), 1)
	p.Add(cloud.Handle(), 3)
	m.Select(p)
	require.Equal(t, []BoxKey{{cloud.Handle(), 1}, {cloud.Handle(), 3}}, cloud.BoxKeys())
	require.Len(t, root.Children(), 2)
	require.Equal(t, "Point 1: 0.00, 0.00, 0.00", root.Children()[0].Label())

	next := NewPicked()
	next.Add(cloud.Handle(), 3)
	next.Add(cloud.Handle(), 2)
	m.Select(next)
	require.Equal(t, []BoxKey{{cloud.Handle(), 2}, {cloud.Handle(), 3}}, cloud.BoxKeys())
	require.Len(t, cloud.Properties(), 2)
	require.Len(t, root.Children(), 2)

	ctx.DestroyObject(points[2])
	m.UpdateProperties()
	for _, n := range root.Children() {
		if n.Text == "Point 3" {
			require.Empty(t, n.Value)
		}
	}

	m.ClearSelection()
	require.Zero(t, cloud.BoxCount())
	require.Empty(t, root.Children())
}

func TestSelectSwitchesBetweenWholeAndSubIDs(t *testing.T) {
	m, ctx := newTestManager(t)
	root := ui.NewNode("panel", "", "", "")
	m.SetPropertyRoot(root)

	cloud, _ := m.NewHandler(Behavior{})
	points := make([]*scene.Object, 3)
	for i := range points {
		points[i] = ctx.CreateObject(nil, fmt.Sprintf("p%d", i), scene.KindPoint, geom.Vec3{float32(i), 0, 0}, geom.Vec3{0.2, 0.2, 0.2})
	}
	cloud.behavior = PointCloud(points, "yellow")

	whole := NewPicked()
	whole.Add(cloud.Handle(), 0)
	one := NewPicked()
	one.Add(cloud.Handle(), 1)
	two := NewPicked()
	two.Add(cloud.Handle(), 2)

	m.Select(whole)
	require.Equal(t, 3, cloud.BoxCount())
	require.Len(t, root.Children(), 3)

	m.Select(one)
	require.Equal(t, []BoxKey{{cloud.Handle(), 1}}, m.Selection().Keys())
	require.Equal(t, []BoxKey{{cloud.Handle(), 1}}, cloud.BoxKeys())
	require.Len(t, root.Children(), 1)
	require.Len(t, cloud.Properties(), 1)

	m.AddSelection(whole)
	require.Equal(t, []BoxKey{{cloud.Handle(), 0}}, m.Selection().Keys())
	require.Equal(t, 3, cloud.BoxCount())
	require.Len(t, root.Children(), 3)

	m.AddSelection(two)
	require.Equal(t, []BoxKey{{cloud.Handle(), 0}}, m.Selection().Keys())
	require.Equal(t, 3, cloud.BoxCount())

	m.RemoveSelection(two)
	require.Empty(t, m.Selection())
	require.Zero(t, cloud.BoxCount())
	require.Empty(t, root.Children())

	m.Select(whole)
	m.Select(one)
	m.ClearSelection()
	require.Zero(t, cloud.BoxCount())
	require.Empty(t, root.Children())
	require.Empty(t, cloud.Properties())
}

func propertyNamed(root *ui.Node, text string) []*ui.Node {
	var out []*ui.Node
	root.Walk(func(n *ui.Node, _ int) {
		if n.Text == text {
			out = append(out, n)
		}
	})
	return out
}

func TestComposedPropertiesReleaseBothSides(t *testing.T) {
	m, ctx := newTestManager(t)
	root := ui.NewNode("panel", "", "", "")
	m.SetPropertyRoot(root)

	cloud, _ := m.NewHandler(Behavior{})
	points := []*scene.Object{
		ctx.CreateObject(nil, "p1", scene.KindPoint, geom.Vec3{0, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
		ctx.CreateObject(nil, "p2", scene.KindPoint, geom.Vec3{1, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
	}
	cloud.behavior = ObjectProperties().With(PointCloud(points, "yellow"))

	p := NewPicked()
	p.Add(cloud.Handle(), 1)
	p.Add(cloud.Handle(), 2)
	m.Select(p)
	require.Len(t, cloud.Properties(), 3)
	require.Len(t, propertyNamed(root, "Handle"), 1)

	one := NewPicked()
	one.Add(cloud.Handle(), 1)
	m.RemoveSelection(one)
	require.Len(t, cloud.Properties(), 1)
	require.Empty(t, propertyNamed(root, "Handle"))

	m.ClearSelection()
	require.Empty(t, cloud.Properties())
	require.Empty(t, root.Children())
}

func TestObjectPropertiesKeepsGroupWhenSelectionGrows(t *testing.T) {
	m, ctx := newTestManager(t)
	root := ui.NewNode("panel", "", "", "")
	m.SetPropertyRoot(root)

	cloud, _ := m.NewHandler(Behavior{})
	points := []*scene.Object{
		ctx.CreateObject(nil, "p1", scene.KindPoint, geom.Vec3{0, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
		ctx.CreateObject(nil, "p2", scene.KindPoint, geom.Vec3{1, 0, 0}, geom.Vec3{0.2, 0.2, 0.2}),
	}
	cloud.behavior = ObjectProperties().With(PointCloud(points, "yellow"))
	anchor := pickable(ctx, cloud, "anchor", geom.Vec3{})

	one := NewPicked()
	one.Add(cloud.Handle(), 1)
	m.Select(one)
	two := NewPicked()
	two.Add(cloud.Handle(), 2)
	m.AddSelection(two)
	require.Len(t, propertyNamed(root, "Handle"), 1)

	anchor.Translate(geom.Vec3{1, 0, 0})
	m.UpdateProperties()
	pos := propertyNamed(root, "Position")
	require.Len(t, pos, 1)
	require.Equal(t, "1.00, 0.00, 0.00", pos[0].Value)

	m.ClearSelection()
	require.Empty(t, root.Children())
}

func TestUpdatePropertiesRefreshesSelected(t *testing.T) {
	m, ctx := newTestManager(t)
	in := ui.NewInspector()
	m.SetPropertyRoot(in.Root())
	h, _ := m.NewHandler(ObjectProperties())
	o := pickable(ctx, h, "cube", geom.Vec3{})

	p := NewPicked()
	p.Add(h.Handle(), 0)
	m.Select(p)

	var position *ui.Node
	in.Root().Walk(func(n *ui.Node, _ int) {
		if n.Text == "Position" {
			position = n
		}
	})
	require.NotNil(t, position)
	require.Equal(t, "0.00, 0.00, 0.00", position.Value)

	o.SetPosition(geom.Vec3{1, 2, 3})
	m.UpdateProperties()
	require.Equal(t, "1.00, 2.00, 3.00", position.Value)

	ctx.DestroyObject(o)
	m.UpdateProperties()
	require.Empty(t, position.Value)
}

func TestDestroyedHandlerLeavesSelection(t *testing.T) {
	m, _ := newTestManager(t)
	root := ui.NewNode("panel", "", "", "")
	m.SetPropertyRoot(root)
	h, _ := m.NewHandler(Behavior{
		CreateProperties: func(h *Handler, _ Picked, parent *ui.Node) {
			h.AddProperty(parent, ui.NewProperty("x", "1"))
		},
	})
	p := NewPicked()
	p.Add(h.Handle(), 0)
	m.Select(p)
	require.Len(t, root.Children(), 1)

	h.Destroy()
	require.Empty(t, m.Selection())
	require.Empty(t, root.Children())
	require.Zero(t, m.Len())
}

func TestBoxOnSelect(t *testing.T) {
	m, ctx := newTestManager(t)
	h, _ := m.NewHandler(ObjectBounds().With(BoxOnSelect("red")))
	a := pickable(ctx, h, "a", geom.Vec3{0, 0, 0})
	b := pickable(ctx, h, "b", geom.Vec3{2, 0, 0})

	p := NewPicked()
	p.Add(h.Handle(), 0)
	m.Select(p)
	e, ok := h.Box(BoxKey{Handle: h.Handle()})
	require.True(t, ok)
	require.Equal(t, a.WorldBounds().Merge(b.WorldBounds()), e.AABB)
	require.Equal(t, "red", e.Material)

	m.ClearSelection()
	require.Zero(t, h.BoxCount())
	require.Zero(t, ctx.LiveBoxes())
}

func TestFocusBounds(t *testing.T) {
	m, ctx := newTestManager(t)
	a, _ := m.NewHandler(ObjectBounds())
	b, _ := m.NewHandler(Behavior{})
	oa := pickable(ctx, a, "a", geom.Vec3{1, 1, 1})
	pickable(ctx, b, "b", geom.Vec3{9, 9, 9})

	p := NewPicked()
	p.Add(a.Handle(), 0)
	p.Add(b.Handle(), 0)
	got, ok := m.FocusBounds(p)
	require.True(t, ok)
	require.Equal(t, oa.WorldBounds(), got)
	require.Zero(t, a.BoxCount())

	only := NewPicked()
	only.Add(b.Handle(), 0)
	_, ok = m.FocusBounds(only)
	require.False(t, ok)
}

func TestInteractiveTarget(t *testing.T) {
	m, _ := newTestManager(t)
	a, _ := m.NewHandler(Behavior{})
	b, _ := m.NewHandler(Behavior{})
	reg := interact.NewRegistry()
	ref := reg.Register(stubInteractive{})
	b.SetInteractiveObject(ref)

	p := NewPicked()
	p.Add(a.Handle(), 0)
	require.True(t, m.InteractiveTarget(p).IsZero())
	p.Add(b.Handle(), 0)
	require.Equal(t, ref, m.InteractiveTarget(p))
}

func TestCloseDestroysHandlers(t *testing.T) {
	m, ctx := newTestManager(t)
	h, _ := m.NewHandler(ObjectBounds())
	o := pickable(ctx, h, "o", geom.Vec3{})
	h.CreateBox(BoxKey{Handle: h.Handle()}, o.WorldBounds(), "red")
	require.Equal(t, 1, ctx.LiveBoxes())

	m.Close()
	require.Zero(t, m.Len())
	require.True(t, h.Destroyed())
	require.Zero(t, ctx.LiveBoxes())
	require.Zero(t, o.ListenerCount())
}

func TestCapabilities(t *testing.T) {
	require.Zero(t, Behavior{}.Capabilities())
	require.True(t, ObjectBounds().Capabilities().Has(CapBounds))
	require.True(t, BoxOnSelect("red").Capabilities().Has(CapSelectHooks))
	require.True(t, ObjectProperties().Capabilities().Has(CapProperties))

	c := PointCloud(nil, "red").Capabilities()
	require.True(t, c.Has(CapMultiPass|CapRenderHooks|CapProperties|CapBounds|CapSelectHooks))
	require.False(t, ObjectBounds().Capabilities().Has(CapBounds|CapMultiPass))
}

func TestPointCloudPassCount(t *testing.T) {
	var h Handler
	small := PointCloud(make([]*scene.Object, 0), "red")
	require.False(t, small.NeedsAdditionalRenderPass(&h, 0))
	require.True(t, small.NeedsAdditionalRenderPass(&h, 1))
	require.False(t, small.NeedsAdditionalRenderPass(&h, 2))
}
