package gen

// HeightSource gives the world Y of the topmost solid voxel of a column.
type HeightSource interface {
	Height(x, z int) int
}

// NoiseHeight shapes terrain from a base and a detail noise field.
type NoiseHeight struct {
	base   Noise
	detail Noise
	scale  float64
}

// NewNoiseHeight creates a height source with amplitude scale in voxels.
func NewNoiseHeight(base, detail Noise, scale float64) *NoiseHeight {
	return &NoiseHeight{base: base, detail: detail, scale: scale}
}

func (h *NoiseHeight) Height(x, z int) int {
	nx := float64(x) / 256.0
	nz := float64(z) / 256.0
	base := Octave2D(h.base, nx, nz, 4, 0.5)

	dx := float64(x) / 32.0
	dz := float64(z) / 32.0
	detail := Octave2D(h.detail, dx, dz, 3, 0.5)

	return fastFloor(base*h.scale + detail*4.0)
}

// FlatHeight is a constant surface level.
type FlatHeight struct {
	Level int
}

func (h FlatHeight) Height(_, _ int) int { return h.Level }
