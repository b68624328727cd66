package physics

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"selection-engine/internal/geom"
	"selection-engine/internal/scene"
	"selection-engine/internal/selection"
)

func TestBodyRestsOnStaticFloor(t *testing.T) {
	w := NewWorld()
	floor := NewBody(geom.Vec3{0, 0, 0}, geom.Vec3{10, 1, 10}, 0, true)
	cube := NewBody(geom.Vec3{0, 2, 0}, geom.Vec3{1, 1, 1}, 1, false)
	w.AddBody(floor)
	w.AddBody(cube)

	for i := 0; i < 100; i++ {
		w.Step(0.02)
	}
	require.InDelta(t, 1.0, cube.Position[1], 1e-4)
	require.Equal(t, geom.Vec3{0, 0, 0}, floor.Position)
}

func TestDynamicPairSplitsByMass(t *testing.T) {
	tests := []struct {
		name         string
		a, b         geom.Vec3
		wantA, wantB float32
	}{
		{"b right of a", geom.Vec3{0, 0, 0}, geom.Vec3{0.5, 0, 0}, -0.25, 0.75},
		{"b left of a", geom.Vec3{0.5, 0, 0}, geom.Vec3{0, 0, 0}, 0.75, -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			w.SetGravity(geom.Vec3{})
			a := NewBody(tt.a, geom.Vec3{1, 1, 1}, 1, false)
			b := NewBody(tt.b, geom.Vec3{1, 1, 1}, 1, false)
			w.AddBody(a)
			w.AddBody(b)
			w.Step(0)
			require.InDelta(t, tt.wantA, a.Position[0], 1e-6)
			require.InDelta(t, tt.wantB, b.Position[0], 1e-6)
		})
	}
}

func TestBoundObjectFollowsBody(t *testing.T) {
	ctx := scene.NewContext(scene.NewGraph(), nil)
	m := selection.NewManager(ctx, zerolog.Nop())
	h, err := m.NewHandler(selection.ObjectBounds().With(selection.BoxOnSelect("red")))
	require.NoError(t, err)

	o := ctx.CreateObject(nil, "crate", scene.KindCube, geom.Vec3{0, 0, 0}, geom.Vec3{1, 1, 1})
	h.AddTrackedObject(o)
	p := selection.NewPicked()
	p.Add(h.Handle(), 0)
	m.Select(p)

	w := NewWorld()
	w.SetGravity(geom.Vec3{})
	b := NewBody(geom.Vec3{5, 5, 5}, geom.Vec3{1, 1, 1}, 1, false)
	w.Bind(o, b)
	w.Bind(o, b)
	require.Len(t, w.Bodies, 1)
	require.Equal(t, geom.Vec3{}, b.Position)

	b.Velocity = geom.Vec3{1, 0, 0}
	w.Step(1)
	require.Equal(t, geom.Vec3{1, 0, 0}, o.Position())

	e, ok := h.Box(selection.BoxKey{Handle: h.Handle()})
	require.True(t, ok)
	require.Equal(t, o.WorldBounds(), e.AABB)
	require.Equal(t, geom.Vec3{1, 0, 0}, e.Node.Position())
	require.Equal(t, selection.DefaultTrackedBoxMaterial, e.Material)
}

func TestDestroyedObjectIsUnbound(t *testing.T) {
	g := scene.NewGraph()
	o := g.CreateObject(nil, "o", scene.KindSphere, geom.Vec3{}, geom.Vec3{1, 1, 1})
	w := NewWorld()
	b := NewBody(geom.Vec3{}, geom.Vec3{1, 1, 1}, 1, false)
	w.Bind(o, b)

	g.DestroyObject(o)
	w.Step(0.1)
	_, ok := w.Object(b)
	require.False(t, ok)
	require.Len(t, w.Bodies, 1)

	w.Unbind(b)
	w.Step(0.1)
	require.Less(t, b.Position[1], float32(0))
}
