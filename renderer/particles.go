package renderer

import (
	"image/color"

	"github.com/pthm-cable/emberfield/config"
	"github.com/pthm-cable/emberfield/systems"
)

// ParticleRenderer draws flow particles as filled circles in their palette color.
type ParticleRenderer struct {
	colors []color.NRGBA
}

// NewParticleRenderer precomputes the palette at the given alpha.
func NewParticleRenderer(palette []config.RGB, alpha float64) *ParticleRenderer {
	colors := make([]color.NRGBA, len(palette))
	for i, rgb := range palette {
		colors[i] = RGBA(rgb, alpha)
	}
	return &ParticleRenderer{colors: colors}
}

// Draw paints every particle. The caller owns the composite mode.
func (r *ParticleRenderer) Draw(c Canvas, particles []systems.Particle) {
	if len(r.colors) == 0 {
		return
	}
	for i := range particles {
		p := &particles[i]
		c.FillCircle(p.X, p.Y, p.Size, r.colors[p.Color%len(r.colors)])
	}
}
