// Flow field preview tool - interactive particle tuning with sliders.
//
// Usage: go run ./cmd/fieldpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/game"
	"github.com/pthm-cable/emberfield/renderer"
	"github.com/pthm-cable/emberfield/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 96
)

// slider describes one tunable float parameter.
type slider struct {
	label    string
	min, max float32
	format   string
	value    *float64
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Overlays are not tuned here
	cfg.Dragon.Enabled = false
	cfg.Numbers.Enabled = false
	defaults := *cfg

	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	canvas := renderer.NewRaylibCanvas(previewSize, previewSize, renderer.RGBA(cfg.Background.Color, 1))
	defer canvas.Unload()

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	fieldTex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(fieldTex)
	fieldPixels := make([]color.RGBA, gridSize*gridSize)

	seed := int64(12345)
	count := float64(cfg.Particles.Count)
	g := rebuild(cfg, canvas, seed)

	animating := true
	showField := false
	needsRebuild := false

	sliders := []slider{
		{"Noise scale (spatial frequency)", 0.0005, 0.02, "%.4f", &cfg.Particles.NoiseScale},
		{"Time scale (field drift per tick)", 0, 0.02, "%.4f", &cfg.Particles.TimeScale},
		{"Angle multiplier", 0.5, 8, "%.2f", &cfg.Particles.AngleMultiplier},
		{"Damping (velocity smoothing)", 0.01, 1, "%.2f", &cfg.Particles.Damping},
		{"Fade alpha (trail length)", 0.01, 1, "%.2f", &cfg.Background.FadeAlpha},
		{"Pointer radius", 10, 400, "%.0f", &cfg.Pointer.Radius},
		{"Pointer force", 0, 10, "%.2f", &cfg.Pointer.Force},
		{"Particle count", 10, 3000, "%.0f", &count},
	}

	for !rl.WindowShouldClose() {
		mouse := rl.GetMousePosition()
		if mouse.X >= 0 && mouse.Y >= 0 && mouse.X < previewSize && mouse.Y < previewSize {
			g.Pointer().Move(float64(mouse.X), float64(mouse.Y))
		} else {
			g.Pointer().Leave()
		}

		if needsRebuild {
			cfg.Particles.Count = int(count)
			g.Close()
			g = rebuild(cfg, canvas, seed)
			needsRebuild = false
		}

		canvas.BeginFrame()
		if animating {
			g.Step()
		}
		if showField {
			updateFieldTexture(fieldTex, fieldPixels, cfg, seed, g.Tick())
		}

		canvas.EndFrame(func() {
			if showField {
				rl.DrawTexturePro(
					fieldTex,
					rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
					rl.Rectangle{X: 0, Y: 0, Width: previewSize, Height: previewSize},
					rl.Vector2{X: 0, Y: 0},
					0,
					rl.Color{R: 255, G: 255, B: 255, A: 90},
				)
			}
			rl.DrawRectangle(previewSize, 0, windowWidth-previewSize, windowHeight, rl.RayWhite)
			rl.DrawRectangle(0, previewSize, previewSize, windowHeight-previewSize, rl.RayWhite)

			speeds := g.Particles().Speeds()
			var mean float64
			for _, s := range speeds {
				mean += s
			}
			if len(speeds) > 0 {
				mean /= float64(len(speeds))
			}
			statsY := int32(previewSize + 15)
			rl.DrawText(fmt.Sprintf("Tick: %d  Resets: %d  Mean speed: %.3f", g.Tick(), g.Particles().Resets(), mean), 15, statsY, 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Noise: %s  Seed: %d  FPS: %d", cfg.Particles.Noise, seed, rl.GetFPS()), 15, statsY+22, 16, rl.DarkGray)

			panelX := float32(previewSize + 20)
			panelY := float32(10)
			rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
			panelY += 35

			for _, s := range sliders {
				rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
				panelY += 18
				old := float32(*s.value)
				v := gui.SliderBar(
					rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
					"", "",
					old, s.min, s.max,
				)
				rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
				if v != old {
					*s.value = float64(v)
					needsRebuild = true
				}
				panelY += 32
			}
			panelY += 8

			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Pause", "Animate")) {
				animating = !animating
			}
			if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showField, "Hide Field", "Show Field")) {
				showField = !showField
			}
			panelY += 40

			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
				seed = int64(rl.GetRandomValue(0, 99999))
				needsRebuild = true
			}
			if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(cfg.Particles.Noise == "perlin", "OpenSimplex", "Perlin")) {
				if cfg.Particles.Noise == "perlin" {
					cfg.Particles.Noise = "opensimplex"
				} else {
					cfg.Particles.Noise = "perlin"
				}
				needsRebuild = true
			}
			panelY += 40

			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
				*cfg = defaults
				count = float64(cfg.Particles.Count)
				needsRebuild = true
			}
			if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Save YAML") {
				if err := cfg.WriteYAML("fieldpreview.yaml"); err != nil {
					slog.Error("failed to save config", "error", err)
				} else {
					slog.Info("config saved", "path", "fieldpreview.yaml")
				}
			}

			rl.DrawText("Press C to copy particle YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.Gray)
		})

		if rl.IsKeyPressed(rl.KeyC) {
			if text, err := particlesYAML(cfg); err == nil {
				rl.SetClipboardText(text)
			}
		}
	}

	g.Close()
}

// rebuild starts a fresh animation with the current parameters.
func rebuild(cfg *config.Config, canvas *renderer.RaylibCanvas, seed int64) *game.Game {
	g, err := game.NewGame(cfg, canvas, game.Options{Seed: seed})
	if err != nil {
		slog.Error("failed to build preview", "error", err)
		os.Exit(1)
	}
	g.Start()
	return g
}

// particlesYAML renders the tunable sections in config file form.
func particlesYAML(cfg *config.Config) (string, error) {
	out, err := yaml.Marshal(map[string]any{
		"particles":  cfg.Particles,
		"pointer":    cfg.Pointer,
		"background": cfg.Background,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling preview config: %w", err)
	}
	return string(out), nil
}

// updateFieldTexture colors each grid cell by its flow angle.
func updateFieldTexture(tex rl.Texture2D, pixels []color.RGBA, cfg *config.Config, seed int64, tick int64) {
	noise := systems.NewNoiseField(cfg.Particles.Noise, seed)
	step := float64(previewSize) / gridSize
	z := float64(tick) * cfg.Particles.TimeScale

	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			x := (float64(gx) + 0.5) * step
			y := (float64(gy) + 0.5) * step
			n := noise.Noise3D(x*cfg.Particles.NoiseScale, y*cfg.Particles.NoiseScale, z)
			angle := n * math.Pi * cfg.Particles.AngleMultiplier
			hue := math.Mod(angle*180/math.Pi, 360)
			if hue < 0 {
				hue += 360
			}
			pixels[gy*gridSize+gx] = rl.ColorFromHSV(float32(hue), 0.7, 0.9)
		}
	}
	rl.UpdateTexture(tex, pixels)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
