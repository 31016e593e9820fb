package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/renderer"
	"github.com/pthm-cable/emberfield/systems"
)

// recordingCanvas logs draw calls instead of rasterizing.
type recordingCanvas struct {
	w, h    int
	mode    renderer.CompositeMode
	ops     []string
	resizes int
	fills   []color.NRGBA
}

func (c *recordingCanvas) Size() (int, int) { return c.w, c.h }

func (c *recordingCanvas) Resize(w, h int) {
	c.w, c.h = w, h
	c.resizes++
	c.ops = append(c.ops, fmt.Sprintf("resize %dx%d", w, h))
}

func (c *recordingCanvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	c.fills = append(c.fills, col)
	c.ops = append(c.ops, fmt.Sprintf("rect %v,%v %vx%v", x, y, w, h))
}

func (c *recordingCanvas) FillCircle(_, _, _ float64, _ color.NRGBA) {
	c.ops = append(c.ops, "circle")
}

func (c *recordingCanvas) SetCompositeMode(m renderer.CompositeMode) {
	c.mode = m
	if m == renderer.CompositeLighter {
		c.ops = append(c.ops, "lighter")
	} else {
		c.ops = append(c.ops, "source-over")
	}
}

func (c *recordingCanvas) StrokePath(_ []renderer.Point, _ float64, _ color.NRGBA) {
	c.ops = append(c.ops, "stroke")
}

func (c *recordingCanvas) DrawText(_ string, _, _ float64, _ int, _ color.NRGBA) {
	c.ops = append(c.ops, "text")
}

// probeLayer records what it saw.
type probeLayer struct {
	canvas  *recordingCanvas
	updates []systems.PointerState
	modes   []renderer.CompositeMode
	sizes   [][2]float64
}

func (l *probeLayer) Update(ptr systems.PointerState) { l.updates = append(l.updates, ptr) }
func (l *probeLayer) Draw(renderer.Surface)           { l.modes = append(l.modes, l.canvas.mode) }
func (l *probeLayer) Resize(w, h float64)             { l.sizes = append(l.sizes, [2]float64{w, h}) }

type driverFixture struct {
	cfg       *config.Config
	canvas    *recordingCanvas
	sched     *ManualScheduler
	particles *systems.ParticleSystem
	pointer   *systems.PointerTracker
	driver    *Driver
}

func newDriverFixture(t *testing.T, noise systems.NoiseField) *driverFixture {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	f := &driverFixture{
		cfg:     cfg,
		canvas:  &recordingCanvas{w: 800, h: 600},
		sched:   &ManualScheduler{},
		pointer: systems.NewPointerTracker(cfg.Pointer.Radius),
	}
	f.particles = systems.NewParticleSystem(cfg.Particles, cfg.Pointer, len(cfg.Palette), noise, 800, 600, rand.New(rand.NewSource(1)))
	f.driver = NewDriver(f.canvas, f.sched, f.particles,
		renderer.NewParticleRenderer(cfg.Palette, cfg.Particles.Alpha), f.pointer,
		renderer.RGBA(cfg.Background.Color, cfg.Background.FadeAlpha))
	return f
}

func zeroTableNoise(t *testing.T) *systems.PerlinNoise {
	t.Helper()
	n, err := systems.NewPerlinNoiseFromTable([256]int{})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestDriver_FrameOrder(t *testing.T) {
	f := newDriverFixture(t, systems.NewPerlinNoise(1))
	layer := &probeLayer{canvas: f.canvas}
	f.driver.AddLayer(layer)

	f.driver.Start()
	f.sched.Step()

	ops := f.canvas.ops
	if ops[0] != "rect 0,0 800x600" {
		t.Fatalf("first op = %q, want full-canvas fade", ops[0])
	}
	if want := renderer.RGBA(config.RGB{8, 8, 8}, 0.2); f.canvas.fills[0] != want {
		t.Errorf("fade color = %v, want %v", f.canvas.fills[0], want)
	}
	if ops[1] != "lighter" {
		t.Errorf("second op = %q, want additive mode before particles", ops[1])
	}
	for i := 2; i < 2+400; i++ {
		if ops[i] != "circle" {
			t.Fatalf("op %d = %q, want particle circle", i, ops[i])
		}
	}
	if ops[402] != "source-over" {
		t.Errorf("op after particles = %q, want source-over restored", ops[402])
	}
	if len(ops) != 403 {
		t.Errorf("got %d ops, want 403", len(ops))
	}

	if len(layer.modes) != 1 || layer.modes[0] != renderer.CompositeSourceOver {
		t.Errorf("layer drew in modes %v, want one source-over draw", layer.modes)
	}
}

func TestDriver_RearmsEveryFrame(t *testing.T) {
	f := newDriverFixture(t, systems.NewPerlinNoise(1))

	if f.sched.Pending() {
		t.Fatal("frame armed before Start")
	}
	f.driver.Start()
	f.driver.Start()

	for i := 1; i <= 5; i++ {
		if !f.sched.Pending() {
			t.Fatalf("no frame armed before frame %d", i)
		}
		f.sched.Step()
		if got := f.driver.Tick(); got != int64(i) {
			t.Errorf("tick = %d after %d frames", got, i)
		}
	}

	if ran := f.sched.Run(10); ran != 10 || f.driver.Tick() != 15 {
		t.Errorf("Run(10) ran %d frames, tick %d; want 10 and 15", ran, f.driver.Tick())
	}
}

func TestDriver_ObserverSeesIncrementedTick(t *testing.T) {
	f := newDriverFixture(t, systems.NewPerlinNoise(1))
	var seen []int64
	f.driver.OnFrame(func(tick int64) { seen = append(seen, tick) })

	f.driver.Start()
	f.sched.Run(3)

	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("observer saw %v, want [1 2 3]", seen)
	}
}

func TestDriver_ResizeCoalescedAndAppliedBetweenFrames(t *testing.T) {
	f := newDriverFixture(t, systems.NewPerlinNoise(1))
	layer := &probeLayer{canvas: f.canvas}
	f.driver.AddLayer(layer)
	f.driver.Start()
	f.sched.Run(3)

	f.driver.RequestResize(1024, 768)
	f.driver.RequestResize(640, 480)

	if f.canvas.resizes != 0 {
		t.Fatal("resize applied before the next frame")
	}

	f.canvas.ops = nil
	f.sched.Step()

	if f.canvas.resizes != 1 {
		t.Errorf("canvas resized %d times, want 1", f.canvas.resizes)
	}
	if f.canvas.ops[0] != "resize 640x480" || f.canvas.ops[1] != "rect 0,0 640x480" {
		t.Errorf("ops start %v, want resize then fade at the new size", f.canvas.ops[:2])
	}
	if w, h := f.particles.Bounds(); w != 640 || h != 480 {
		t.Errorf("particle bounds = %vx%v, want 640x480", w, h)
	}
	if len(layer.sizes) != 1 || layer.sizes[0] != [2]float64{640, 480} {
		t.Errorf("layer resizes = %v, want one to 640x480", layer.sizes)
	}
	if f.driver.Tick() != 4 {
		t.Errorf("tick = %d, want 4 (resize does not reset the counter)", f.driver.Tick())
	}

	f.sched.Step()
	if f.canvas.resizes != 1 {
		t.Error("resize re-applied on a later frame")
	}
}

func TestDriver_SingleTickScenario(t *testing.T) {
	f := newDriverFixture(t, zeroTableNoise(t))
	f.particles.Particles = []systems.Particle{{X: 400, Y: 300, Speed: 1, Size: 1}}

	f.driver.Start()
	f.sched.Step()

	p := f.particles.Particles[0]
	if math.Abs(p.VX-0.1) > 1e-12 || p.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (0.1, 0)", p.VX, p.VY)
	}
	if math.Abs(p.X-400.1) > 1e-9 || p.Y != 300 {
		t.Errorf("position = (%v, %v), want (400.1, 300)", p.X, p.Y)
	}
}

func TestDriver_PointerPassedToLayers(t *testing.T) {
	f := newDriverFixture(t, systems.NewPerlinNoise(1))
	layer := &probeLayer{canvas: f.canvas}
	f.driver.AddLayer(layer)
	f.driver.Start()

	f.pointer.Move(120, 80)
	f.sched.Step()
	f.pointer.Leave()
	f.sched.Step()

	if len(layer.updates) != 2 {
		t.Fatalf("layer updated %d times, want 2", len(layer.updates))
	}
	if got := layer.updates[0]; !got.Active || got.X != 120 || got.Y != 80 || got.Radius != 150 {
		t.Errorf("first pointer = %+v, want active at (120, 80) radius 150", got)
	}
	if layer.updates[1].Active {
		t.Error("pointer still active after Leave")
	}
}

func TestDriver_EmptyResizeKeepsDomain(t *testing.T) {
	f := newDriverFixture(t, systems.NewPerlinNoise(1))
	layer := &probeLayer{canvas: f.canvas}
	f.driver.AddLayer(layer)
	f.driver.Start()
	f.sched.Step()

	f.driver.RequestResize(0, 0)
	f.sched.Step()

	if f.canvas.resizes != 0 {
		t.Errorf("canvas resized %d times for an empty size, want 0", f.canvas.resizes)
	}
	if w, h := f.particles.Bounds(); w != 800 || h != 600 {
		t.Errorf("particle bounds = %vx%v, want 800x600 kept", w, h)
	}
	if len(layer.sizes) != 0 {
		t.Errorf("layer resized to %v, want no resize", layer.sizes)
	}
	if f.driver.Tick() != 2 || !f.sched.Pending() {
		t.Errorf("tick = %d pending = %v, want the loop to keep running", f.driver.Tick(), f.sched.Pending())
	}
}

func TestDriver_CanvasRoundedToEmptyKeepsDomain(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	canvas := renderer.NewTerminalCanvas(100, 37)
	sched := &ManualScheduler{}
	particles := systems.NewParticleSystem(cfg.Particles, cfg.Pointer, len(cfg.Palette),
		systems.NewPerlinNoise(1), 800, 592, rand.New(rand.NewSource(1)))
	d := NewDriver(canvas, sched, particles,
		renderer.NewParticleRenderer(cfg.Palette, cfg.Particles.Alpha),
		systems.NewPointerTracker(cfg.Pointer.Radius),
		renderer.RGBA(cfg.Background.Color, cfg.Background.FadeAlpha))
	d.Start()

	// Smaller than one cell on both axes
	d.RequestResize(7, 15)
	sched.Step()

	if cols, rows := canvas.Cells(); cols != 0 || rows != 0 {
		t.Fatalf("terminal = %dx%d cells, want 0x0", cols, rows)
	}
	if w, h := particles.Bounds(); w != 800 || h != 592 {
		t.Errorf("particle bounds = %vx%v, want 800x592 kept", w, h)
	}

	d.RequestResize(1600, 1200)
	sched.Step()

	if w, h := particles.Bounds(); w != 1600 || h != 1200 {
		t.Errorf("particle bounds = %vx%v after growing back, want 1600x1200", w, h)
	}
	if d.Tick() != 2 {
		t.Errorf("tick = %d, want 2", d.Tick())
	}
}
