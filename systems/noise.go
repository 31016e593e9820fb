package systems

import (
	"fmt"
	"math"
	"math/rand"
)

// NoiseField is a 3D scalar noise source with values in about [-1, 1].
type NoiseField interface {
	Noise3D(x, y, z float64) float64
}

// PerlinNoise generates coherent 3D gradient noise from a 512-entry permutation table.
// The table is immutable after construction, so one instance can be shared read-only.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a noise generator whose table is a seeded shuffle of 0..255.
func NewPerlinNoise(seed int64) *PerlinNoise {
	rng := rand.New(rand.NewSource(seed))

	var table [256]int
	for i := range table {
		table[i] = i
	}

	// Shuffle
	for i := len(table) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		table[i], table[j] = table[j], table[i]
	}

	p := &PerlinNoise{}
	p.fold(table)
	return p
}

// NewPerlinNoiseFromTable creates a noise generator from a fixed table.
// The table need not be a permutation, but every entry must lie in [0,256).
func NewPerlinNoiseFromTable(table [256]int) (*PerlinNoise, error) {
	for i, v := range table {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("noise table entry %d is %d, want [0,256)", i, v)
		}
	}
	p := &PerlinNoise{}
	p.fold(table)
	return p, nil
}

// fold fills the 512-entry lookup so that perm[i] == table[i&255].
func (p *PerlinNoise) fold(table [256]int) {
	for i := range p.perm {
		p.perm[i] = table[i&255]
	}
}

// Noise3D returns a noise value roughly in [-1, 1] for 3D coordinates.
// Output repeats every 256 units on each axis.
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)

	// Find unit cube; floor first so negative coordinates never index below zero
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	// Find relative position in cube
	x -= fx
	y -= fy
	z -= fz

	// Compute fade curves
	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash coordinates of cube corners
	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	// Blend results from 8 corners
	return lerp(w, lerp(v, lerp(u, grad3D(p.perm[AA], x, y, z),
		grad3D(p.perm[BA], x-1, y, z)),
		lerp(u, grad3D(p.perm[AB], x, y-1, z),
			grad3D(p.perm[BB], x-1, y-1, z))),
		lerp(v, lerp(u, grad3D(p.perm[AA+1], x, y, z-1),
			grad3D(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad3D(p.perm[AB+1], x, y-1, z-1),
				grad3D(p.perm[BB+1], x-1, y-1, z-1))))
}

// Noise2D returns a noise value for 2D coordinates.
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	return p.Noise3D(x, y, 0)
}

// fade is 6t^5 - 15t^4 + 10t^3: zero first and second derivative at 0 and 1.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad3D picks two of the three offsets from the low 4 hash bits, with sign flips from bits 0 and 1.
func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
