package standard

import (
	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// Biome is a column material rule with a set of surface structures.
type Biome struct {
	name        string
	top         voxel.Block
	filler      voxel.Block
	deep        voxel.Block
	fillerDepth int
	structures  []registry.Structure
}

func (b *Biome) Name() string { return b.name }

// Layer returns top at the surface, filler for the next fillerDepth voxels
// and deep below that.
func (b *Biome) Layer(depth int) voxel.Block {
	switch {
	case depth == 0:
		return b.top
	case depth <= b.fillerDepth:
		return b.filler
	}
	return b.deep
}

func (b *Biome) Structures() []registry.Structure { return b.structures }

// Biomes returns the standard biomes in registration order.
func Biomes(bl Blocks) []registry.Biome {
	return []registry.Biome{
		&Biome{
			name: "plains", top: bl.Grass, filler: bl.Dirt, deep: bl.Stone, fillerDepth: 3,
			structures: []registry.Structure{
				OakTree(bl.OakLog, bl.OakLeaves, 0.003),
			},
		},
		&Biome{
			name: "forest", top: bl.Grass, filler: bl.Dirt, deep: bl.Stone, fillerDepth: 3,
			structures: []registry.Structure{
				OakTree(bl.OakLog, bl.OakLeaves, 0.02),
				BirchTree(bl.BirchLog, bl.BirchLeaves, 0.01),
				BrownMushroom(bl.MushroomStem, bl.BrownMushroom, 0.002),
			},
		},
		&Biome{
			name: "taiga", top: bl.Grass, filler: bl.Dirt, deep: bl.Stone, fillerDepth: 3,
			structures: []registry.Structure{
				SpruceTree(bl.SpruceLog, bl.SpruceLeaves, 0.02),
			},
		},
		&Biome{
			name: "desert", top: bl.Sand, filler: bl.Sand, deep: bl.Stone, fillerDepth: 4,
		},
	}
}
