package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/emberfield/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Every method is a no-op on nil
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Errorf("WritePerf: %v", err)
	}
	if err := om.WriteFlow(FlowStats{}); err != nil {
		t.Errorf("WriteFlow: %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}
	if om.Dir() != "" || om.FramePath(3) != "" {
		t.Error("expected empty paths")
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for _, end := range []int64{300, 600} {
		if err := om.WriteFlow(FlowStats{WindowEndTick: end, Particles: 400, SpeedMean: 1.25}); err != nil {
			t.Fatalf("WriteFlow: %v", err)
		}
		if err := om.WritePerf(PerfStats{AvgFrame: time.Millisecond}, end); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tests := []struct {
		file   string
		header string
	}{
		{"flow.csv", "window_end,width,height,particles,speed_mean"},
		{"perf.csv", "window_end,avg_frame_us"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != 3 {
				t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), data)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("header = %q, want prefix %q", lines[0], tt.header)
			}
			if !strings.HasPrefix(lines[2], "600,") {
				t.Errorf("second row = %q, want window_end 600", lines[2])
			}
		})
	}
}

func TestOutputManager_WriteConfig(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	reloaded, err := config.Load(filepath.Join(om.Dir(), "config.yaml"))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if reloaded.Particles.Count != cfg.Particles.Count {
		t.Errorf("particle count = %d, want %d", reloaded.Particles.Count, cfg.Particles.Count)
	}
	if got := om.FramePath(42); filepath.Base(got) != "frame_000042.png" {
		t.Errorf("FramePath = %q", got)
	}
}
