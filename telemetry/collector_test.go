package telemetry

import (
	"math"
	"testing"
)

func TestCollector_ShouldFlush(t *testing.T) {
	tests := []struct {
		name   string
		window int
		tick   int64
		want   bool
	}{
		{"mid window", 300, 150, false},
		{"window end", 300, 300, true},
		{"past end", 300, 301, true},
		{"zero window clamps to one", 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.window, 0)
			if got := c.ShouldFlush(tt.tick); got != tt.want {
				t.Errorf("ShouldFlush(%d) = %v, want %v", tt.tick, got, tt.want)
			}
		})
	}
}

func TestCollector_Flush(t *testing.T) {
	c := NewCollector(10, 40)
	for i := 0; i < 10; i++ {
		c.RecordTick(i < 4)
	}

	s := c.Flush(10, 60, []float64{1, 1, 1, 1}, 800, 600)

	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.Resets != 20 {
		t.Errorf("resets = %d, want 20", s.Resets)
	}
	if math.Abs(s.ResetRate-0.5) > 1e-12 {
		t.Errorf("reset rate = %v, want 0.5 (20 resets / 10 ticks / 4 particles)", s.ResetRate)
	}
	if math.Abs(s.PointerActive-0.4) > 1e-12 {
		t.Errorf("pointer active = %v, want 0.4", s.PointerActive)
	}
	if s.Particles != 4 || s.SpeedMean != 1 {
		t.Errorf("particles = %d mean = %v", s.Particles, s.SpeedMean)
	}

	// Window restarts at the flush point
	if c.Ticks() != 0 {
		t.Errorf("ticks after flush = %d, want 0", c.Ticks())
	}
	if c.ShouldFlush(15) || !c.ShouldFlush(20) {
		t.Error("next window should close at tick 20")
	}
	next := c.Flush(20, 60, nil, 800, 600)
	if next.WindowStartTick != 10 || next.Resets != 0 || next.ResetRate != 0 {
		t.Errorf("next window start %d resets %d rate %v", next.WindowStartTick, next.Resets, next.ResetRate)
	}
}
