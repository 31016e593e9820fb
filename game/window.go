package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/input"
	"github.com/pthm-cable/emberfield/renderer"
	"github.com/pthm-cable/emberfield/systems"
)

// RunWindow opens a raylib window and runs the animation until it is closed.
func RunWindow(cfg *config.Config, opts Options) error {
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	canvas := renderer.NewRaylibCanvas(cfg.Screen.Width, cfg.Screen.Height, renderer.RGBA(cfg.Background.Color, 1))
	defer canvas.Unload()

	g, err := NewGame(cfg, canvas, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	var x11 *input.X11Pointer
	if cfg.Pointer.Source == "x11" {
		x11, err = input.NewX11Pointer()
		if err != nil {
			slog.Warn("x11 pointer unavailable, using window mouse", "error", err)
		} else {
			defer x11.Close()
		}
	}

	showHUD := false
	g.Start()
	for !rl.WindowShouldClose() && !g.Done() {
		if rl.IsWindowResized() {
			g.RequestResize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
		}
		if rl.IsKeyPressed(rl.KeyF11) {
			rl.ToggleFullscreen()
		}
		if rl.IsKeyPressed(rl.KeyH) {
			showHUD = !showHUD
		}

		if x11 != nil {
			if err := pollX11Pointer(g.Pointer(), x11); err != nil {
				slog.Warn("x11 pointer query failed, using window mouse", "error", err)
				x11.Close()
				x11 = nil
			}
		} else {
			pollWindowPointer(g.Pointer())
		}

		canvas.BeginFrame()
		g.Step()
		canvas.EndFrame(func() {
			if showHUD {
				drawHUD(g)
			}
		})
		g.RecordPresent()
	}

	slog.Info("window closed", "tick", g.Tick())
	return nil
}

// pollWindowPointer feeds the window-relative mouse into the tracker.
func pollWindowPointer(p *systems.PointerTracker) {
	if !rl.IsCursorOnScreen() {
		p.Leave()
		return
	}
	pos := rl.GetMousePosition()
	p.Move(float64(pos.X), float64(pos.Y))
}

// pollX11Pointer converts the global pointer to window coordinates.
func pollX11Pointer(p *systems.PointerTracker, x11 *input.X11Pointer) error {
	x, y, ok, err := x11.Position()
	if err != nil {
		return err
	}
	win := rl.GetWindowPosition()
	wx := float64(x) - float64(win.X)
	wy := float64(y) - float64(win.Y)
	inside := wx >= 0 && wy >= 0 && wx < float64(rl.GetScreenWidth()) && wy < float64(rl.GetScreenHeight())
	if !ok || !inside {
		p.Leave()
		return nil
	}
	p.Move(wx, wy)
	return nil
}

func drawHUD(g *Game) {
	stats := g.perf.Stats()
	rl.DrawRectangle(8, 8, 220, 58, rl.Color{A: 160})
	rl.DrawText(fmt.Sprintf("FPS %d  tick %d", rl.GetFPS(), g.Tick()), 16, 14, 16, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("frame %dus  resets %d", stats.AvgFrame.Microseconds(), g.particles.Resets()), 16, 38, 16, rl.LightGray)
}
