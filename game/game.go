// Package game wires the simulation, the renderers and telemetry into a runnable animation
// and provides the window, terminal and headless hosts that drive it.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/renderer"
	"github.com/pthm-cable/emberfield/systems"
	"github.com/pthm-cable/emberfield/telemetry"
)

// Options configures a run beyond what the config file holds.
type Options struct {
	Seed      int64  // Seeds the noise table and every random draw
	LogStats  bool   // Log flow and perf stats every stats window
	OutputDir string // Directory for CSV logs, config snapshot and frames (empty = disabled)
	MaxTicks  int    // Stop after this many frames (0 = unlimited)
	Snapshot  string // PNG written when a raster-backed run ends (empty = none)
}

// Game owns one running animation: the simulation, its driver and telemetry.
type Game struct {
	cfg       *config.Config
	opts      Options
	scheduler *ManualScheduler
	driver    *Driver
	pointer   *systems.PointerTracker
	particles *systems.ParticleSystem
	canvas    renderer.Surface

	perf   *telemetry.PerfCollector
	flow   *telemetry.Collector
	output *telemetry.OutputManager
}

// NewGame builds the animation on canvas, sized to the canvas.
func NewGame(cfg *config.Config, canvas renderer.Surface, opts Options) (*Game, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("saving config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	noise := systems.NewNoiseField(cfg.Particles.Noise, opts.Seed)

	w, h := canvas.Size()
	fw, fh := float64(w), float64(h)

	g := &Game{
		cfg:       cfg,
		opts:      opts,
		scheduler: &ManualScheduler{},
		pointer:   systems.NewPointerTracker(cfg.Pointer.Radius),
		particles: systems.NewParticleSystem(cfg.Particles, cfg.Pointer, len(cfg.Palette), noise, fw, fh, rng),
		canvas:    canvas,
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:    output,
	}
	g.flow = telemetry.NewCollector(cfg.Telemetry.StatsWindow, g.particles.Resets())

	fade := renderer.RGBA(cfg.Background.Color, cfg.Background.FadeAlpha)
	g.driver = NewDriver(canvas, g.scheduler, g.particles,
		renderer.NewParticleRenderer(cfg.Palette, cfg.Particles.Alpha), g.pointer, fade)
	g.driver.SetPerfCollector(g.perf)

	if cfg.Dragon.Enabled {
		g.driver.AddLayer(&dragonLayer{
			dragon:   systems.NewDragon(cfg.Dragon, fw, fh),
			renderer: renderer.NewDragonRenderer(cfg.Dragon),
		})
	}
	if cfg.Numbers.Enabled {
		g.driver.AddLayer(&numbersLayer{
			field:    systems.NewNumberField(cfg.Numbers, fw, fh, rng),
			renderer: renderer.NewNumberRenderer(cfg.Numbers),
		})
	}

	g.driver.OnFrame(g.observeFrame)

	slog.Info("animation ready",
		"width", w,
		"height", h,
		"particles", cfg.Particles.Count,
		"noise", cfg.Particles.Noise,
		"seed", opts.Seed,
	)

	return g, nil
}

// Start arms the first frame.
func (g *Game) Start() {
	g.driver.Start()
}

// Step runs the armed frame. It returns false if nothing was armed.
func (g *Game) Step() bool {
	return g.scheduler.Step()
}

// Done reports whether MaxTicks has been reached.
func (g *Game) Done() bool {
	return g.opts.MaxTicks > 0 && g.driver.Tick() >= int64(g.opts.MaxTicks)
}

// Tick returns the number of completed frames.
func (g *Game) Tick() int64 {
	return g.driver.Tick()
}

// Pointer returns the tracker hosts feed pointer events into.
func (g *Game) Pointer() *systems.PointerTracker {
	return g.pointer
}

// Particles returns the particle system.
func (g *Game) Particles() *systems.ParticleSystem {
	return g.particles
}

// RequestResize schedules a canvas resize for the next frame.
func (g *Game) RequestResize(width, height int) {
	slog.Debug("resize requested", "width", width, "height", height, "tick", g.driver.Tick())
	g.driver.RequestResize(width, height)
}

// RecordPresent marks a frame reaching the screen.
func (g *Game) RecordPresent() {
	g.perf.RecordPresent()
}

// observeFrame accumulates flow telemetry and flushes it every stats window.
func (g *Game) observeFrame(tick int64) {
	g.flow.RecordTick(g.pointer.State().Active)
	if !g.flow.ShouldFlush(tick) {
		return
	}

	w, h := g.canvas.Size()
	flowStats := g.flow.Flush(tick, g.particles.Resets(), g.particles.Speeds(), w, h)
	perfStats := g.perf.Stats()

	if g.opts.LogStats {
		slog.Info("flow", "stats", flowStats)
		slog.Info("perf", "stats", perfStats)
	}

	if err := g.output.WriteFlow(flowStats); err != nil {
		slog.Error("failed to write flow stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// Close flushes and closes run output.
func (g *Game) Close() error {
	return g.output.Close()
}
