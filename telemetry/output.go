package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/emberfield/config"
)

// csvLog appends rows to one CSV file, writing the header with the first row.
type csvLog struct {
	file          *os.File
	headerWritten bool
}

func openCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{file: f}, nil
}

// write marshals rows, which must be a slice of csv-tagged structs.
func (l *csvLog) write(rows any) error {
	if !l.headerWritten {
		if err := gocsv.Marshal(rows, l.file); err != nil {
			return err
		}
		l.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, l.file)
}

// OutputManager writes run output (config snapshot, CSV logs, PNG frames) to one directory.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir  string
	perf *csvLog
	flow *csvLog
}

// NewOutputManager creates dir and opens the CSV logs.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	perf, err := openCSVLog(dir, "perf.csv")
	if err != nil {
		return nil, err
	}
	flow, err := openCSVLog(dir, "flow.csv")
	if err != nil {
		perf.file.Close()
		return nil, err
	}

	return &OutputManager{dir: dir, perf: perf, flow: flow}, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteFlow appends a flow stats record to flow.csv.
func (om *OutputManager) WriteFlow(stats FlowStats) error {
	if om == nil {
		return nil
	}
	if err := om.flow.write([]FlowStats{stats}); err != nil {
		return fmt.Errorf("writing flow: %w", err)
	}
	return nil
}

// FramePath returns the path for a PNG frame captured at tick.
func (om *OutputManager) FramePath(tick int64) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, fmt.Sprintf("frame_%06d.png", tick))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, l := range []*csvLog{om.perf, om.flow} {
		if err := l.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
