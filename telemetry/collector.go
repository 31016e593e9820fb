package telemetry

// Collector accumulates per-tick events within stats windows and produces FlowStats.
type Collector struct {
	windowTicks int64

	// Current window tracking
	windowStart   int64
	resetsAtStart int64

	// Event counters for current window
	ticks        int64
	pointerTicks int64
}

// NewCollector creates a collector flushing every windowTicks ticks.
// resets is the particle system's reset counter at tick 0.
func NewCollector(windowTicks int, resets int64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:   int64(windowTicks),
		resetsAtStart: resets,
	}
}

// RecordTick records one completed tick.
func (c *Collector) RecordTick(pointerActive bool) {
	c.ticks++
	if pointerActive {
		c.pointerTicks++
	}
}

// Ticks returns the number of ticks recorded in the current window.
func (c *Collector) Ticks() int64 {
	return c.ticks
}

// ShouldFlush reports whether tick closes a window.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush computes the window's stats from the system state at tick and starts a new window.
func (c *Collector) Flush(tick, resets int64, speeds []float64, width, height int) FlowStats {
	s := FlowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   tick,
		Width:           width,
		Height:          height,
		Particles:       len(speeds),
		Resets:          resets - c.resetsAtStart,
	}
	s.SpeedMean, s.SpeedStd, s.SpeedP10, s.SpeedP50, s.SpeedP90, s.SpeedMax = ComputeSpeedStats(speeds)
	if c.ticks > 0 {
		s.PointerActive = float64(c.pointerTicks) / float64(c.ticks)
		if len(speeds) > 0 {
			s.ResetRate = float64(s.Resets) / float64(c.ticks) / float64(len(speeds))
		}
	}

	c.windowStart = tick
	c.resetsAtStart = resets
	c.ticks = 0
	c.pointerTicks = 0
	return s
}
