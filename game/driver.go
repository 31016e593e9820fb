package game

import (
	"image/color"

	"github.com/pthm-cable/emberfield/renderer"
	"github.com/pthm-cable/emberfield/systems"
	"github.com/pthm-cable/emberfield/telemetry"
)

// Layer is an overlay updated and drawn after the particle pass, in source-over mode.
type Layer interface {
	Update(ptr systems.PointerState)
	Draw(s renderer.Surface)
	Resize(width, height float64)
}

// Driver runs the per-frame animation loop on top of a Scheduler.
//
// Each frame: apply a pending resize, fade the canvas toward the background,
// advance the particles one tick, draw them additively, update and draw the
// overlay layers, increment the tick counter, notify observers, re-arm.
type Driver struct {
	canvas    renderer.Surface
	scheduler Scheduler
	particles *systems.ParticleSystem
	drawer    *renderer.ParticleRenderer
	pointer   *systems.PointerTracker
	fade      color.NRGBA
	layers    []Layer
	observers []func(tick int64)
	perf      *telemetry.PerfCollector

	tick    int64
	started bool

	resizePending bool
	resizeW       int
	resizeH       int
}

// NewDriver creates a driver. fade is the color painted over the whole canvas each frame.
func NewDriver(canvas renderer.Surface, scheduler Scheduler, particles *systems.ParticleSystem,
	drawer *renderer.ParticleRenderer, pointer *systems.PointerTracker, fade color.NRGBA) *Driver {
	return &Driver{
		canvas:    canvas,
		scheduler: scheduler,
		particles: particles,
		drawer:    drawer,
		pointer:   pointer,
		fade:      fade,
		perf:      telemetry.NewPerfCollector(60),
	}
}

// AddLayer appends an overlay. Layers draw in the order added.
func (d *Driver) AddLayer(l Layer) {
	d.layers = append(d.layers, l)
}

// OnFrame registers fn to run after every frame with the new tick count.
func (d *Driver) OnFrame(fn func(tick int64)) {
	d.observers = append(d.observers, fn)
}

// SetPerfCollector replaces the frame timing collector.
func (d *Driver) SetPerfCollector(p *telemetry.PerfCollector) {
	d.perf = p
}

// Start arms the first frame. Calling it again has no effect.
func (d *Driver) Start() {
	if d.started {
		return
	}
	d.started = true
	d.scheduler.RequestFrame(d.frame)
}

// RequestResize records a new canvas size to apply at the start of the next frame.
// Requests between two frames coalesce; the last one wins.
func (d *Driver) RequestResize(width, height int) {
	d.resizePending = true
	d.resizeW = width
	d.resizeH = height
}

// Tick returns the number of completed frames.
func (d *Driver) Tick() int64 {
	return d.tick
}

func (d *Driver) frame() {
	d.perf.StartFrame()

	if d.resizePending {
		d.perf.StartPhase(telemetry.PhaseResize)
		d.applyResize()
	}

	d.perf.StartPhase(telemetry.PhaseFade)
	w, h := d.canvas.Size()
	d.canvas.FillRect(0, 0, float64(w), float64(h), d.fade)

	d.perf.StartPhase(telemetry.PhaseFlow)
	ptr := d.pointer.State()
	d.particles.Update(d.tick, ptr)

	d.perf.StartPhase(telemetry.PhaseParticles)
	d.canvas.SetCompositeMode(renderer.CompositeLighter)
	d.drawer.Draw(d.canvas, d.particles.Particles)
	d.canvas.SetCompositeMode(renderer.CompositeSourceOver)

	if len(d.layers) > 0 {
		d.perf.StartPhase(telemetry.PhaseOverlays)
		for _, l := range d.layers {
			l.Update(ptr)
			l.Draw(d.canvas)
		}
	}

	d.perf.EndFrame()
	d.tick++

	for _, fn := range d.observers {
		fn(d.tick)
	}

	d.scheduler.RequestFrame(d.frame)
}

// applyResize swaps the canvas and every simulation domain to the pending size in one step.
// An empty size (minimized window, terminal smaller than one cell) keeps the previous domain.
func (d *Driver) applyResize() {
	d.resizePending = false
	if d.resizeW <= 0 || d.resizeH <= 0 {
		return
	}
	d.canvas.Resize(d.resizeW, d.resizeH)

	// Backends may round the requested size
	w, h := d.canvas.Size()
	if w <= 0 || h <= 0 {
		return
	}
	fw, fh := float64(w), float64(h)
	d.particles.Resize(fw, fh)
	for _, l := range d.layers {
		l.Resize(fw, fh)
	}
}
