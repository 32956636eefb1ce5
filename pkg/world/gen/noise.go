package gen

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

// Noise is a coherent noise field with values roughly in [-1, 1].
// Implementations must be safe for concurrent use.
type Noise interface {
	Noise2D(x, y float64) float64
	Noise3D(x, y, z float64) float64
}

// Perlin noise parameters: alpha is the weight divisor per octave, beta the
// frequency multiplier, n the number of octaves.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

// PerlinNoise adapts go-perlin to Noise.
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise creates a Perlin noise field from a seed.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)}
}

func (n *PerlinNoise) Noise2D(x, y float64) float64 { return clampUnit(n.p.Noise2D(x, y)) }

func (n *PerlinNoise) Noise3D(x, y, z float64) float64 { return clampUnit(n.p.Noise3D(x, y, z)) }

// NewNoise returns the noise backend called kind ("perlin" or "simplex").
func NewNoise(kind string, seed int64) (Noise, error) {
	switch kind {
	case "", "perlin":
		return NewPerlinNoise(seed), nil
	case "simplex":
		return NewSimplexNoise(seed), nil
	}
	return nil, fmt.Errorf("unknown noise backend %q", kind)
}

// Octave2D layers multiple octaves of 2D noise. Returns a value in [-1, 1].
func Octave2D(n Noise, x, y float64, octaves int, persistence float64) float64 {
	var total, maxVal float64
	frequency, amplitude := 1.0, 1.0

	for range octaves {
		total += n.Noise2D(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	return total / maxVal
}

// Octave3D layers multiple octaves of 3D noise.
func Octave3D(n Noise, x, y, z float64, octaves int, persistence float64) float64 {
	var total, maxVal float64
	frequency, amplitude := 1.0, 1.0

	for range octaves {
		total += n.Noise3D(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2.0
	}
	return total / maxVal
}

// unit maps a noise value from [-1, 1] into [0, 1).
func unit(v float64) float64 {
	u := (clampUnit(v) + 1) / 2
	if u >= 1 {
		u = 0.9999999
	}
	return u
}

func clampUnit(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}
