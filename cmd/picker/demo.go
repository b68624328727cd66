package main

import (
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/spf13/pflag"

	"selection-engine/internal/engineconfig"
	"selection-engine/internal/geom"
	"selection-engine/internal/interact"
	"selection-engine/internal/physics"
	"selection-engine/internal/scene"
	"selection-engine/internal/selection"
)

const (
	kickSpeed   = 6
	cloudRadius = 3
	pointSize   = 0.15
)

// grip is the interactive object of a crate: clicking it with the interact tool kicks the crate up.
type grip struct {
	body    *physics.Body
	enabled bool
}

func (g *grip) IsInteractive() bool  { return g.enabled }
func (g *grip) Enable(enabled bool) { g.enabled = enabled }

func (g *grip) HandleMouseEvent(ev interact.MouseEvent) bool {
	if ev.Type != interact.MousePress || ev.Button != interact.ButtonLeft {
		return false
	}
	g.body.Velocity[1] = kickSpeed
	return true
}

// buildScene creates a static floor, a few falling crates, a pillar and a point cloud, each with its own
// selection handler.
func (a *app) buildScene(points int) error {
	floor := a.ctx.CreateObject(nil, "floor", scene.KindPlane, geom.Vec3{0, 0, 0}, geom.Vec3{20, 0.1, 20})
	a.world.Bind(floor, physics.NewBody(floor.Position(), geom.Vec3{20, 0.1, 20}, 0, true))
	if _, err := a.selectable(floor, selection.ObjectProperties()); err != nil {
		return err
	}

	pillar := a.ctx.CreateObject(nil, "pillar", scene.KindCylinder, geom.Vec3{-4, 1.5, -2}, geom.Vec3{1, 3, 1})
	a.world.Bind(pillar, physics.NewBody(pillar.Position(), pillar.Scale(), 0, true))
	if _, err := a.selectable(pillar, a.objectBehavior()); err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		name := "crate " + strconv.Itoa(i+1)
		crate := a.ctx.CreateObject(nil, name, scene.KindCube, geom.Vec3{float32(i*2 - 2), float32(3 + i*2), 0}, geom.Vec3{1, 1, 1})
		body := physics.NewBody(crate.Position(), crate.Scale(), 1, false)
		a.world.Bind(crate, body)
		h, err := a.selectable(crate, a.objectBehavior())
		if err != nil {
			return err
		}
		h.SetInteractiveObject(a.registry.Register(&grip{body: body, enabled: true}))
	}

	return a.buildCloud(points)
}

func (a *app) objectBehavior() selection.Behavior {
	return selection.ObjectBounds().
		With(selection.BoxOnSelect(a.prefs.SelectionBoxMaterial)).
		With(selection.ObjectProperties())
}

// selectable gives o its own handler and pick handle.
func (a *app) selectable(o *scene.Object, b selection.Behavior) (*selection.Handler, error) {
	h, err := a.manager.NewHandler(b)
	if err != nil {
		return nil, fmt.Errorf("handler for %s: %w", o.Name, err)
	}
	o.PickHandle = uint32(h.Handle())
	h.AddTrackedObject(o)
	return h, nil
}

// buildCloud arranges n points on a ring above the floor, all sharing one handle.
func (a *app) buildCloud(n int) error {
	if n <= 0 {
		return nil
	}
	node := a.ctx.CreateSceneNode(nil)
	pts := make([]*scene.Object, n)
	for i := range pts {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		pos := geom.Vec3{4 + cloudRadius*math32.Cos(angle), 1 + 0.5*math32.Sin(3*angle), cloudRadius * math32.Sin(angle)}
		pts[i] = a.ctx.CreateObject(node, fmt.Sprintf("point %d", i+1), scene.KindPoint, pos, geom.Vec3{pointSize, pointSize, pointSize})
	}

	h, err := a.manager.NewHandler(selection.PointCloud(pts, a.prefs.SelectionBoxMaterial))
	if err != nil {
		return fmt.Errorf("handler for point cloud: %w", err)
	}
	for _, p := range pts {
		p.PickHandle = uint32(h.Handle())
	}
	h.AddTrackedObjects(node)
	return nil
}

func (a *app) registerCommands() {
	selectFlags := pflag.NewFlagSet("select", pflag.ContinueOnError)
	selectSub := selectFlags.Uint64("sub", 0, "sub-id to select (0 selects the whole entity)")
	a.cmds.Register("select", selectFlags, func(args []string) error {
		p, err := pickedFromArgs(args, *selectSub)
		if err != nil {
			return err
		}
		a.manager.Select(p)
		a.setStatus()
		return nil
	})

	addFlags := pflag.NewFlagSet("add", pflag.ContinueOnError)
	addSub := addFlags.Uint64("sub", 0, "sub-id to add (0 adds the whole entity)")
	a.cmds.Register("add", addFlags, func(args []string) error {
		p, err := pickedFromArgs(args, *addSub)
		if err != nil {
			return err
		}
		a.manager.AddSelection(p)
		a.setStatus()
		return nil
	})

	a.cmds.Register("clear", nil, func([]string) error {
		a.manager.ClearSelection()
		a.setStatus()
		return nil
	})
	a.cmds.Register("focus", nil, func([]string) error {
		a.focus()
		return nil
	})
	a.cmds.Register("materials", nil, func([]string) error {
		a.log.Log("materials: " + fmt.Sprint(a.ctx.Materials.Names()))
		return nil
	})
	a.cmds.Register("save", nil, func([]string) error {
		return engineconfig.Save(a.configPath, a.prefs)
	})
}

// pickedFromArgs builds a selection from handle arguments; sub applies to every handle given.
func pickedFromArgs(args []string, sub uint64) (selection.Picked, error) {
	p := selection.NewPicked()
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad handle %q: %w", arg, err)
		}
		p.Add(selection.Handle(v), sub)
	}
	return p, nil
}
