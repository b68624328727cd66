package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	logFont    = 14
	logLines   = 6
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws the runtime overlays of the picker: FPS and heap counters (top-left), a status line
// describing the current hover or selection, and the tail of the log (bottom-left).
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowLog      bool

	// Status is drawn under the counters, e.g. "hover: handle 3 sub 12".
	Status string
	// Lines supplies the last n log lines, drawn when ShowLog is set.
	Lines func(n int) []string

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// Draw renders any enabled overlays. Call after the scene and inspector in the draw loop.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") {
		update = true
	}

	y := int32(padding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		rl.DrawText(d.lastFpsText, padding, y, fontSize, rl.Green)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024))
		}
		rl.DrawText(d.lastMemText, padding, y, fontSize, rl.Green)
		y += lineHeight
	}
	if d.Status != "" {
		rl.DrawText(d.Status, padding, y, fontSize, rl.RayWhite)
	}

	if d.ShowLog && d.Lines != nil {
		lines := d.Lines(logLines)
		ly := int32(rl.GetScreenHeight()) - padding - int32(len(lines))*(logFont+4)
		for _, l := range lines {
			rl.DrawText(l, padding, ly, logFont, rl.LightGray)
			ly += logFont + 4
		}
	}
}
