package main

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"selection-engine/internal/commands"
	"selection-engine/internal/debug"
	"selection-engine/internal/engineconfig"
	"selection-engine/internal/interact"
	"selection-engine/internal/logger"
	"selection-engine/internal/materials"
	"selection-engine/internal/physics"
	"selection-engine/internal/render"
	"selection-engine/internal/scene"
	"selection-engine/internal/selection"
	"selection-engine/internal/ui"
)

type app struct {
	prefs      engineconfig.Prefs
	configPath string
	log        *logger.Logger
	zl         zerolog.Logger

	ctx       *scene.Context
	manager   *selection.Manager
	world     *physics.World
	inspector *ui.Inspector
	viewport  *render.Viewport
	pick      *render.PickPass
	overlay   *debug.Debug

	registry *interact.Registry
	tool     *interact.Tool
	cmds     *commands.Registry
	console  chan string

	lastProps time.Time
	nodes     []*ui.Node
}

func newApp(prefs engineconfig.Prefs, configPath string, log *logger.Logger, points int) (*app, error) {
	lib := materials.Default()
	if prefs.MaterialsPath != "" {
		if err := lib.Load(prefs.MaterialsPath); err != nil {
			return nil, fmt.Errorf("load materials: %w", err)
		}
	}

	a := &app{
		prefs:      prefs,
		configPath: configPath,
		log:        log,
		zl:         log.Zerolog(),
		ctx:        scene.NewContext(scene.NewGraph(), lib),
		world:      physics.NewWorld(),
		inspector:  ui.NewInspector(),
		viewport:   render.NewViewport(),
		overlay:    debug.New(),
		registry:   interact.NewRegistry(),
		cmds:       commands.NewRegistry(),
		console:    make(chan string, 16),
	}
	a.manager = selection.NewManager(a.ctx, a.zl, selection.WithTrackedBoxMaterial(prefs.TrackedBoxMaterial))
	a.manager.SetPropertyRoot(a.inspector.Root())
	a.pick = render.NewPickPass(a.ctx.Graph, a.viewport)
	a.tool = interact.NewTool(a.interactiveAt)
	a.overlay.ShowLog = true
	a.overlay.Lines = log.Tail

	if err := a.buildScene(points); err != nil {
		return nil, err
	}
	a.registerCommands()
	a.zl.Info().Int("handlers", a.manager.Len()).Strs("materials", lib.Names()).Msg("picker ready")
	return a, nil
}

func (a *app) update() {
	a.viewport.Update()
	a.drainConsole()
	a.handleKeys()
	a.handleMouse()

	a.world.Step(rl.GetFrameTime())

	if now := time.Now(); now.Sub(a.lastProps) >= a.prefs.PropertyUpdateInterval {
		a.manager.UpdateProperties()
		a.lastProps = now
	}
}

func (a *app) draw() {
	a.viewport.Draw(a.ctx.Graph)
	a.nodes = a.inspector.AppendNodes(a.nodes[:0], a.prefs.ShowInspector, float32(rl.GetScreenWidth()))
	render.DrawNodes(a.nodes)
	a.overlay.Draw()
}

func (a *app) close() {
	a.pick.Close()
	a.manager.Close()
}

func (a *app) drainConsole() {
	for {
		select {
		case line := <-a.console:
			args, ok := commands.Parse(line)
			if !ok {
				a.log.Log(line)
				continue
			}
			if err := a.cmds.Execute(args); err != nil {
				a.zl.Warn().Err(err).Str("line", line).Msg("command failed")
			}
		default:
			return
		}
	}
}

func (a *app) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyF):
		a.focus()
	case rl.IsKeyPressed(rl.KeyC):
		a.manager.ClearSelection()
		a.setStatus()
	case rl.IsKeyPressed(rl.KeyTab):
		a.prefs.ShowInspector = !a.prefs.ShowInspector
	case rl.IsKeyPressed(rl.KeyI):
		if a.tool.Active() {
			a.tool.Deactivate()
		} else {
			a.tool.Activate()
		}
		a.zl.Info().Bool("active", a.tool.Active()).Msg("interact tool")
	}
}

func (a *app) handleMouse() {
	pos := rl.GetMousePosition()
	x, y := int(pos.X), int(pos.Y)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if a.tool.HandleMouseEvent(interact.MouseEvent{Type: interact.MousePress, Button: interact.ButtonLeft, X: x, Y: y}) {
			return
		}
		p, err := a.pickAt(x, y)
		if err != nil {
			a.zl.Warn().Err(err).Msg("pick failed")
			return
		}
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.manager.AddSelection(p)
		} else {
			a.manager.Select(p)
		}
		a.setStatus()
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		a.tool.HandleMouseEvent(interact.MouseEvent{Type: interact.MouseRelease, Button: interact.ButtonLeft, X: x, Y: y})
	}
}

func (a *app) pickAt(x, y int) (selection.Picked, error) {
	return a.manager.Pick(a.pick, selection.Region{X: x, Y: y, Width: 1, Height: 1})
}

// interactiveAt is the interact tool's target lookup: whatever handler sits under the cursor.
func (a *app) interactiveAt(x, y int) interact.Ref {
	p, err := a.pickAt(x, y)
	if err != nil {
		return interact.Ref{}
	}
	return a.manager.InteractiveTarget(p)
}

func (a *app) focus() {
	if b, ok := a.manager.FocusBounds(a.manager.Selection()); ok {
		a.viewport.Focus(b)
	}
}

func (a *app) setStatus() {
	keys := a.manager.Selection().Keys()
	if len(keys) == 0 {
		a.overlay.Status = ""
		return
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k.SubID == 0 {
			parts = append(parts, fmt.Sprintf("%d", k.Handle))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d/%d", k.Handle, k.SubID))
	}
	a.overlay.Status = "selected: " + strings.Join(parts, " ")
}
