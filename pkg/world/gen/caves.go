package gen

import "github.com/OCharnyshevich/voxel-streamer/pkg/voxel"

// caveCarver removes voxels where two 3D simplex fields agree.
type caveCarver struct {
	noise1 Noise
	noise2 Noise
}

func newCaveCarver(seed int64) *caveCarver {
	return &caveCarver{
		noise1: NewSimplexNoise(seed + 300),
		noise2: NewSimplexNoise(seed + 400),
	}
}

const (
	caveThreshold = 0.55
	// Caves stop this many voxels below the column surface.
	caveRoof = 4
)

func (cc *caveCarver) carve(w *writer, heights *[voxel.ChunkSize][voxel.ChunkSize]int) {
	if w.data == nil {
		return
	}

	origin := w.coord.Origin()
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			bx := float64(origin.X + x)
			bz := float64(origin.Z + z)
			maxY := min(heights[x][z]-caveRoof-origin.Y, voxel.ChunkSize)

			for y := 0; y < maxY; y++ {
				by := float64(origin.Y + y)
				n1 := cc.noise1.Noise3D(bx/32.0, by/24.0, bz/32.0)
				n2 := cc.noise2.Noise3D(bx/48.0, by/32.0, bz/48.0)

				if (n1+n2)/2.0 > caveThreshold {
					w.setLocal(voxel.LocalPos{X: x, Y: y, Z: z}, voxel.Air)
				}
			}
		}
	}
}
