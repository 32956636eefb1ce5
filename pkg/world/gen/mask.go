package gen

import "github.com/OCharnyshevich/voxel-streamer/pkg/voxel"

// NeighborMask marks which chunks of a 3×3×3 neighborhood are already loaded.
type NeighborMask uint32

// MaskBit returns the bit for the neighbor at offset (dx, dy, dz), each in [-1, 1].
func MaskBit(dx, dy, dz int) NeighborMask {
	return 1 << uint((dx+1)*9+(dy+1)*3+(dz+1))
}

// Has reports whether the neighbor at the offset is marked.
func (m NeighborMask) Has(dx, dy, dz int) bool {
	return m&MaskBit(dx, dy, dz) != 0
}

// Neighborhood calls fn for every chunk in the 3×3×3 block centered on c,
// c included.
func Neighborhood(c voxel.ChunkCoord, fn func(n voxel.ChunkCoord, dx, dy, dz int)) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				fn(c.Add(dx, dy, dz), dx, dy, dz)
			}
		}
	}
}

// LoadedMask builds the mask of c's neighbors for which loaded returns true.
// The center bit is never set.
func LoadedMask(c voxel.ChunkCoord, loaded func(voxel.ChunkCoord) bool) NeighborMask {
	var m NeighborMask
	Neighborhood(c, func(n voxel.ChunkCoord, dx, dy, dz int) {
		if (dx != 0 || dy != 0 || dz != 0) && loaded(n) {
			m |= MaskBit(dx, dy, dz)
		}
	})
	return m
}
