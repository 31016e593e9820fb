package systems

import (
	"github.com/ojrac/opensimplex-go"
)

// OpenSimplexNoise adapts OpenSimplex noise to NoiseField. It has no lattice
// period and fewer directional artifacts than Perlin noise.
type OpenSimplexNoise struct {
	noise opensimplex.Noise
}

// NewOpenSimplexNoise creates a seeded OpenSimplex generator.
func NewOpenSimplexNoise(seed int64) *OpenSimplexNoise {
	return &OpenSimplexNoise{noise: opensimplex.New(seed)}
}

// Noise3D returns noise in [-1, 1].
func (n *OpenSimplexNoise) Noise3D(x, y, z float64) float64 {
	return n.noise.Eval3(x, y, z)
}

// NewNoiseField builds the generator named by kind ("perlin" or "opensimplex").
func NewNoiseField(kind string, seed int64) NoiseField {
	if kind == "opensimplex" {
		return NewOpenSimplexNoise(seed)
	}
	return NewPerlinNoise(seed)
}
