package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Config sizes the window. Zero width or height means the size of the primary monitor.
type Config struct {
	Title  string
	Width  int32
	Height int32
	FPS    int32
}

// Run opens the window and runs the main loop. Each frame it calls update (input, picking, physics),
// then clears the screen and calls draw. close runs once after the loop ends, while the GL context
// still exists, so GPU resources can be released.
func Run(cfg Config, update, draw, close func()) {
	w, h := cfg.Width, cfg.Height
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(w, h, cfg.Title)
	defer rl.CloseWindow()
	if w == 0 || h == 0 {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
	if close != nil {
		close()
	}
}
