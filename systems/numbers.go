package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/emberfield/components"
	"github.com/pthm-cable/emberfield/config"
)

// NumberField manages the floating number glyphs as ECS entities.
// Glyphs drift upward, fade, and are recycled below the bottom edge.
type NumberField struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Drift, components.Glyph]
	filter *ecs.Filter3[components.Position, components.Drift, components.Glyph]

	cfg config.NumbersConfig
	rng *rand.Rand

	width, height float64
	count         int
}

// NewNumberField spawns cfg.Count glyphs scattered over the canvas.
func NewNumberField(cfg config.NumbersConfig, width, height float64, rng *rand.Rand) *NumberField {
	world := ecs.NewWorld()
	f := &NumberField{
		world:  world,
		mapper: ecs.NewMap3[components.Position, components.Drift, components.Glyph](world),
		filter: ecs.NewFilter3[components.Position, components.Drift, components.Glyph](world),
		cfg:    cfg,
		rng:    rng,
		width:  width,
		height: height,
	}

	for i := 0; i < cfg.Count; i++ {
		var pos components.Position
		var drift components.Drift
		var glyph components.Glyph
		f.scatter(&pos, &drift, &glyph)
		f.mapper.NewEntity(&pos, &drift, &glyph)
		f.count++
	}

	return f
}

// scatter places a glyph anywhere on the canvas with a random opacity.
func (f *NumberField) scatter(pos *components.Position, drift *components.Drift, glyph *components.Glyph) {
	pos.X = f.rng.Float64() * f.width
	pos.Y = f.rng.Float64() * f.height
	drift.Speed = f.cfg.SpeedMin + f.rng.Float64()*(f.cfg.SpeedMax-f.cfg.SpeedMin)
	glyph.Value = f.randomValue()
	glyph.Opacity = f.rng.Float64()
}

// recycle moves a spent glyph below the bottom edge with a fresh value.
func (f *NumberField) recycle(pos *components.Position, glyph *components.Glyph) {
	pos.Y = f.height + f.cfg.Respawn
	pos.X = f.rng.Float64() * f.width
	glyph.Opacity = 0.5 + f.rng.Float64()*0.5
	glyph.Value = f.randomValue()
}

func (f *NumberField) randomValue() int {
	return f.cfg.ValueMin + f.rng.Intn(f.cfg.ValueMax-f.cfg.ValueMin)
}

// Update drifts and fades every glyph by one tick.
func (f *NumberField) Update(_ PointerState) {
	query := f.filter.Query()
	for query.Next() {
		pos, drift, glyph := query.Get()

		pos.Y -= drift.Speed
		glyph.Opacity -= f.cfg.FadeRate

		if glyph.Opacity <= 0 || pos.Y < 0 {
			f.recycle(pos, glyph)
		}
	}
}

// Resize re-scatters every glyph over the new canvas.
func (f *NumberField) Resize(width, height float64) {
	f.width = width
	f.height = height

	query := f.filter.Query()
	for query.Next() {
		pos, drift, glyph := query.Get()
		f.scatter(pos, drift, glyph)
	}
}

// Each calls fn for every glyph.
func (f *NumberField) Each(fn func(pos components.Position, glyph components.Glyph)) {
	query := f.filter.Query()
	for query.Next() {
		pos, _, glyph := query.Get()
		fn(*pos, *glyph)
	}
}

// Count returns the number of glyph entities.
func (f *NumberField) Count() int {
	return f.count
}
