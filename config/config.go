// Package config provides configuration loading and access for the animation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all animation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Background BackgroundConfig `yaml:"background"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Palette    []RGB            `yaml:"palette"`
	Pointer    PointerConfig    `yaml:"pointer"`
	Dragon     DragonConfig     `yaml:"dragon"`
	Numbers    NumbersConfig    `yaml:"numbers"`
	Terminal   TerminalConfig   `yaml:"terminal"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// RGB is a color triple stored in YAML as [r, g, b].
type RGB [3]uint8

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// BackgroundConfig controls the per-frame fade that leaves particle trails.
type BackgroundConfig struct {
	Color     RGB     `yaml:"color"`
	FadeAlpha float64 `yaml:"fade_alpha"` // Alpha of the full-canvas rectangle painted each frame
}

// ParticlesConfig holds flow-field particle parameters.
type ParticlesConfig struct {
	Count           int     `yaml:"count"`
	SpeedMin        float64 `yaml:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max"`
	SizeMin         float64 `yaml:"size_min"`
	SizeMax         float64 `yaml:"size_max"`
	Alpha           float64 `yaml:"alpha"`            // Fill alpha for every particle
	Noise           string  `yaml:"noise"`            // "perlin" or "opensimplex"
	NoiseScale      float64 `yaml:"noise_scale"`      // Spatial frequency of the flow field
	TimeScale       float64 `yaml:"time_scale"`       // Noise z advance per tick
	AngleMultiplier float64 `yaml:"angle_multiplier"` // angle = noise * pi * this
	Damping         float64 `yaml:"damping"`          // Velocity smoothing factor, (0,1]
}

// PointerConfig holds pointer interaction parameters.
type PointerConfig struct {
	Radius float64 `yaml:"radius"` // Interaction radius in pixels
	Force  float64 `yaml:"force"`  // Vortex force at the pointer centre
	Source string  `yaml:"source"` // "window" or "x11"
}

// DragonConfig holds the follow-chain overlay parameters.
type DragonConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Segments   int     `yaml:"segments"`
	Ease       float64 `yaml:"ease"`        // Head easing factor toward the pointer
	LinkLength float64 `yaml:"link_length"` // Distance between consecutive segments
	LineWidth  float64 `yaml:"line_width"`
	BodyColor  RGB     `yaml:"body_color"`
	BodyAlpha  float64 `yaml:"body_alpha"`
	EyeColor   RGB     `yaml:"eye_color"`
	EyeRadius  float64 `yaml:"eye_radius"`
	EyeGlow    float64 `yaml:"eye_glow"` // Outer radius of the eye halo
}

// NumbersConfig holds the drifting-number overlay parameters.
type NumbersConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Count    int     `yaml:"count"`
	ValueMin int     `yaml:"value_min"`
	ValueMax int     `yaml:"value_max"` // Exclusive
	SpeedMin float64 `yaml:"speed_min"`
	SpeedMax float64 `yaml:"speed_max"`
	FadeRate float64 `yaml:"fade_rate"` // Opacity lost per tick
	Respawn  float64 `yaml:"respawn"`   // Distance below the bottom edge for recycled glyphs
	FontSize int     `yaml:"font_size"`
	Color    RGB     `yaml:"color"`
}

// TerminalConfig holds terminal backend settings.
type TerminalConfig struct {
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW   float64
	ScreenH   float64
	FrameTime float64 // Seconds per frame at TargetFPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	var errs []error

	p := c.Particles
	if p.Count <= 0 {
		errs = append(errs, fmt.Errorf("particles.count must be positive, got %d", p.Count))
	}
	if p.SpeedMin < 0 || p.SpeedMax <= p.SpeedMin {
		errs = append(errs, fmt.Errorf("particles speed range [%v, %v) is empty", p.SpeedMin, p.SpeedMax))
	}
	if p.SizeMin <= 0 || p.SizeMax <= p.SizeMin {
		errs = append(errs, fmt.Errorf("particles size range [%v, %v) is empty", p.SizeMin, p.SizeMax))
	}
	if p.Damping <= 0 || p.Damping > 1 {
		errs = append(errs, fmt.Errorf("particles.damping must be in (0, 1], got %v", p.Damping))
	}
	switch p.Noise {
	case "perlin", "opensimplex":
	default:
		errs = append(errs, fmt.Errorf("particles.noise must be perlin or opensimplex, got %q", p.Noise))
	}
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette must have at least one color"))
	}
	if c.Pointer.Radius < 0 {
		errs = append(errs, fmt.Errorf("pointer.radius must not be negative, got %v", c.Pointer.Radius))
	}
	if c.Pointer.Force < 0 {
		errs = append(errs, fmt.Errorf("pointer.force must not be negative, got %v", c.Pointer.Force))
	}
	switch c.Pointer.Source {
	case "window", "x11":
	default:
		errs = append(errs, fmt.Errorf("pointer.source must be window or x11, got %q", c.Pointer.Source))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d is not positive", c.Screen.Width, c.Screen.Height))
	}
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS))
	}
	if c.Terminal.TargetFPS < 0 {
		errs = append(errs, fmt.Errorf("terminal.target_fps must not be negative, got %d", c.Terminal.TargetFPS))
	}
	if c.Dragon.Segments < 0 {
		errs = append(errs, fmt.Errorf("dragon.segments must not be negative, got %d", c.Dragon.Segments))
	}
	if c.Numbers.Count < 0 {
		errs = append(errs, fmt.Errorf("numbers.count must not be negative, got %d", c.Numbers.Count))
	}
	if c.Numbers.SpeedMin < 0 || c.Numbers.SpeedMax < c.Numbers.SpeedMin {
		errs = append(errs, fmt.Errorf("numbers speed range [%v, %v) is inverted", c.Numbers.SpeedMin, c.Numbers.SpeedMax))
	}
	if c.Numbers.Enabled && c.Numbers.ValueMax <= c.Numbers.ValueMin {
		errs = append(errs, fmt.Errorf("numbers value range [%d, %d) is empty", c.Numbers.ValueMin, c.Numbers.ValueMax))
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	if c.Screen.TargetFPS > 0 {
		c.Derived.FrameTime = 1.0 / float64(c.Screen.TargetFPS)
	}
	if c.Terminal.TargetFPS <= 0 {
		c.Terminal.TargetFPS = c.Screen.TargetFPS
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 300
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
