package game

import (
	"log/slog"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/renderer"
)

// RunHeadless renders into an in-memory raster as fast as possible.
// With MaxTicks == 0 it runs until the process is killed.
func RunHeadless(cfg *config.Config, opts Options) error {
	canvas := renderer.NewRasterCanvas(cfg.Screen.Width, cfg.Screen.Height)
	g, err := NewGame(cfg, canvas, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting headless animation",
		"seed", opts.Seed,
		"max_ticks", opts.MaxTicks,
	)

	g.Start()
	for !g.Done() && g.Step() {
	}
	slog.Info("max ticks reached", "tick", g.Tick())

	return writeSnapshots(canvas, g, opts)
}

// writeSnapshots saves the final frame to the -snapshot path and to the output directory.
func writeSnapshots(canvas *renderer.RasterCanvas, g *Game, opts Options) error {
	paths := []string{opts.Snapshot, g.output.FramePath(g.Tick())}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := canvas.WritePNG(path); err != nil {
			return err
		}
		slog.Info("snapshot saved", "path", path, "tick", g.Tick())
	}
	return nil
}
