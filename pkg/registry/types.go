package registry

import (
	"math/rand/v2"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// BlockType is the static description of a block id.
type BlockType struct {
	ID         uint16
	CodeName   string
	Name       string
	Durability int
	Faces      [6]int
	Multiplier map[string]float64
}

// Biome controls the column materials and surface decoration of a region.
type Biome interface {
	Name() string
	// Layer returns the block placed depth voxels below the column surface.
	Layer(depth int) voxel.Block
	Structures() []Structure
}

// Structure is a decoration placed at a surface voxel.
type Structure interface {
	Name() string
	// Chance is the probability of the structure being chosen at a surface voxel.
	Chance() float64
	Generate(p Placer, at voxel.BlockCoord, rng *rand.Rand)
}

// Placer writes blocks in world coordinates. Writes may land outside the
// chunk being generated.
type Placer interface {
	Place(at voxel.BlockCoord, b voxel.Block)
	Get(at voxel.BlockCoord) voxel.Block
}

// PickStructure walks structures by cumulative chance using the uniform
// draw u in [0,1). It returns nil when no structure matches.
func PickStructure(structures []Structure, u float64) Structure {
	acc := 0.0
	for _, s := range structures {
		acc += s.Chance()
		if u < acc {
			return s
		}
	}
	return nil
}
