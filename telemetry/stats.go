package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// FlowStats summarises particle motion over one stats window.
type FlowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`
	Width           int   `csv:"width"`
	Height          int   `csv:"height"`
	Particles       int   `csv:"particles"`

	// Speed distribution sampled at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Events during window
	Resets        int64   `csv:"resets"`
	ResetRate     float64 `csv:"reset_rate"`     // Resets per particle per tick
	PointerActive float64 `csv:"pointer_active"` // Fraction of ticks with an active pointer
}

// ComputeSpeedStats returns mean, standard deviation, 10th/50th/90th percentiles and maximum.
// speeds is not modified.
func ComputeSpeedStats(speeds []float64) (mean, std, p10, p50, p90, maxSpeed float64) {
	switch len(speeds) {
	case 0:
		return 0, 0, 0, 0, 0, 0
	case 1:
		v := speeds[0]
		return v, 0, v, v, v, v
	}

	sorted := slices.Clone(speeds)
	slices.Sort(sorted)

	mean, std = stat.MeanStdDev(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	maxSpeed = sorted[len(sorted)-1]
	return mean, std, p10, p50, p90, maxSpeed
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("particles", s.Particles),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Int64("resets", s.Resets),
		slog.Float64("reset_rate", s.ResetRate),
		slog.Float64("pointer_active", s.PointerActive),
	)
}
