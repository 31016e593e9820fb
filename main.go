package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backend := flag.String("backend", "window", "Renderer: window, terminal or headless")
	logStats := flag.Bool("log-stats", false, "Output flow and perf stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and final frame")
	snapshot := flag.String("snapshot", "", "Write the final frame to this PNG (headless only)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// The terminal backend owns stdout, so its logs go to a file or nowhere
	var logOut io.Writer = os.Stdout
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	} else if *backend == "terminal" {
		logOut = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		MaxTicks:  *maxTicks,
		Snapshot:  *snapshot,
	}

	if err := run(*backend, cfg, opts); err != nil {
		slog.Error("animation failed", "backend", *backend, "error", err)
		os.Exit(1)
	}
}

func run(backend string, cfg *config.Config, opts game.Options) error {
	switch backend {
	case "window":
		return game.RunWindow(cfg, opts)
	case "terminal":
		return game.RunTerminal(cfg, opts)
	case "headless":
		return game.RunHeadless(cfg, opts)
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
}
