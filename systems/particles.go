package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/emberfield/config"
)

// Particle is a single flow-field particle.
// Speed, Size and Color are drawn at reset and stay fixed until the next reset.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Speed  float64
	Size   float64
	Color  int // Palette index
}

// ParticleSystem advances a fixed-size pool of particles through the noise flow field.
type ParticleSystem struct {
	Particles []Particle

	cfg         config.ParticlesConfig
	force       float64
	paletteSize int
	noise       NoiseField
	rng         *rand.Rand

	width, height float64
	resets        int64 // Boundary exits since construction
}

// NewParticleSystem creates a pool of cfg.Count particles scattered over width x height.
func NewParticleSystem(cfg config.ParticlesConfig, pointer config.PointerConfig, paletteSize int,
	noise NoiseField, width, height float64, rng *rand.Rand) *ParticleSystem {
	s := &ParticleSystem{
		Particles:   make([]Particle, cfg.Count),
		cfg:         cfg,
		force:       pointer.Force,
		paletteSize: paletteSize,
		noise:       noise,
		rng:         rng,
		width:       width,
		height:      height,
	}
	s.resetAll()
	return s
}

// Bounds returns the current simulation domain.
func (s *ParticleSystem) Bounds() (width, height float64) {
	return s.width, s.height
}

// Resize swaps the spatial domain and re-randomizes every particle into it.
func (s *ParticleSystem) Resize(width, height float64) {
	s.width = width
	s.height = height
	s.resetAll()
}

func (s *ParticleSystem) resetAll() {
	for i := range s.Particles {
		s.reset(&s.Particles[i])
	}
}

// reset respawns a particle strictly inside the bounds with zero velocity.
func (s *ParticleSystem) reset(p *Particle) {
	p.X = s.interior(s.width)
	p.Y = s.interior(s.height)
	p.VX = 0
	p.VY = 0
	p.Speed = s.cfg.SpeedMin + s.rng.Float64()*(s.cfg.SpeedMax-s.cfg.SpeedMin)
	p.Size = s.cfg.SizeMin + s.rng.Float64()*(s.cfg.SizeMax-s.cfg.SizeMin)
	p.Color = s.rng.Intn(s.paletteSize)
}

// interior returns a uniform value in (0, limit), or 0 for an empty extent.
func (s *ParticleSystem) interior(limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	for {
		v := s.rng.Float64() * limit
		if v > 0 {
			return v
		}
	}
}

// Update advances every particle by one tick.
func (s *ParticleSystem) Update(tick int64, ptr PointerState) {
	for i := range s.Particles {
		p := &s.Particles[i]

		targetX, targetY := s.flowForce(p, tick)

		if ptr.Active {
			vx, vy := vortexForce(p.X, p.Y, ptr, s.force)
			targetX += vx
			targetY += vy
		}

		// Low-pass toward the target force
		p.VX += (targetX - p.VX) * s.cfg.Damping
		p.VY += (targetY - p.VY) * s.cfg.Damping

		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 || p.X > s.width || p.Y < 0 || p.Y > s.height {
			s.reset(p)
			s.resets++
		}
	}
}

// flowForce samples the noise field and returns a force of magnitude p.Speed.
func (s *ParticleSystem) flowForce(p *Particle, tick int64) (float64, float64) {
	n := s.noise.Noise3D(p.X*s.cfg.NoiseScale, p.Y*s.cfg.NoiseScale, float64(tick)*s.cfg.TimeScale)
	angle := n * math.Pi * s.cfg.AngleMultiplier
	return math.Cos(angle) * p.Speed, math.Sin(angle) * p.Speed
}

// vortexForce pushes perpendicular to the pointer-particle axis, strongest at the pointer.
// A particle exactly under the pointer has no defined axis and gets no force.
func vortexForce(x, y float64, ptr PointerState, strength float64) (float64, float64) {
	dx := x - ptr.X
	dy := y - ptr.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 || dist >= ptr.Radius {
		return 0, 0
	}

	falloff := (ptr.Radius - dist) / ptr.Radius
	angle := math.Atan2(dy, dx) + math.Pi/2
	return math.Cos(angle) * falloff * strength, math.Sin(angle) * falloff * strength
}

// Resets returns how many particles have left the bounds and been respawned.
func (s *ParticleSystem) Resets() int64 {
	return s.resets
}

// Speeds returns the current velocity magnitude of every particle.
func (s *ParticleSystem) Speeds() []float64 {
	out := make([]float64, len(s.Particles))
	for i := range s.Particles {
		p := &s.Particles[i]
		out[i] = math.Hypot(p.VX, p.VY)
	}
	return out
}
