package standard

import (
	"math/rand/v2"

	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

type structure struct {
	name   string
	chance float64
	place  func(p registry.Placer, base voxel.BlockCoord, rng *rand.Rand)
}

func (s *structure) Name() string    { return s.name }
func (s *structure) Chance() float64 { return s.chance }

// Generate builds the structure on top of the surface voxel at.
func (s *structure) Generate(p registry.Placer, at voxel.BlockCoord, rng *rand.Rand) {
	s.place(p, at.Add(0, 1, 0), rng)
}

// OakTree is a round-canopy tree with a 4-6 block trunk.
func OakTree(log, leaves voxel.Block, chance float64) registry.Structure {
	return &structure{name: "oak_tree", chance: chance, place: func(p registry.Placer, base voxel.BlockCoord, rng *rand.Rand) {
		roundTree(p, base, 4+rng.IntN(3), log, leaves, rng)
	}}
}

// BirchTree is like OakTree with a taller 5-6 block trunk.
func BirchTree(log, leaves voxel.Block, chance float64) registry.Structure {
	return &structure{name: "birch_tree", chance: chance, place: func(p registry.Placer, base voxel.BlockCoord, rng *rand.Rand) {
		roundTree(p, base, 5+rng.IntN(2), log, leaves, rng)
	}}
}

// SpruceTree is a conical tree with a 6-9 block trunk.
func SpruceTree(log, leaves voxel.Block, chance float64) registry.Structure {
	return &structure{name: "spruce_tree", chance: chance, place: func(p registry.Placer, base voxel.BlockCoord, rng *rand.Rand) {
		spruce(p, base, 6+rng.IntN(4), log, leaves)
	}}
}

// BrownMushroom is a giant mushroom with a flat cap.
func BrownMushroom(stem, capBlock voxel.Block, chance float64) registry.Structure {
	return &structure{name: "brown_mushroom", chance: chance, place: func(p registry.Placer, base voxel.BlockCoord, rng *rand.Rand) {
		mushroom(p, base, 5+rng.IntN(2), stem, capBlock)
	}}
}

func roundTree(p registry.Placer, base voxel.BlockCoord, trunkHeight int, log, leaves voxel.Block, rng *rand.Rand) {
	for dy := 0; dy < trunkHeight; dy++ {
		p.Place(base.Add(0, dy, 0), log)
	}

	leafBase := trunkHeight - 2
	for dy := 0; dy < 4; dy++ {
		y := leafBase + dy
		radius := 2
		if dy >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				// Don't replace trunk.
				if dx == 0 && dz == 0 && y < trunkHeight {
					continue
				}
				// Skip corners for round shape on wider layers.
				if radius == 2 && abs(dx) == 2 && abs(dz) == 2 && rng.IntN(2) == 0 {
					continue
				}
				at := base.Add(dx, y, dz)
				if p.Get(at).IsAir() {
					p.Place(at, leaves)
				}
			}
		}
	}
}

func spruce(p registry.Placer, base voxel.BlockCoord, trunkHeight int, log, leaves voxel.Block) {
	for dy := 0; dy < trunkHeight; dy++ {
		p.Place(base.Add(0, dy, 0), log)
	}

	// Conical leaves: widest at bottom, narrowing to top.
	for dy := 1; dy <= trunkHeight; dy++ {
		radius := min((trunkHeight-dy)/2, 3)
		if radius <= 0 && dy < trunkHeight {
			continue
		}
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx == 0 && dz == 0 {
					continue
				}
				at := base.Add(dx, dy, dz)
				if p.Get(at).IsAir() {
					p.Place(at, leaves)
				}
			}
		}
	}
	p.Place(base.Add(0, trunkHeight, 0), leaves)
}

func mushroom(p registry.Placer, base voxel.BlockCoord, stemHeight int, stem, capBlock voxel.Block) {
	for dy := 0; dy < stemHeight; dy++ {
		p.Place(base.Add(0, dy, 0), stem)
	}

	const radius = 3
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if abs(dx) == radius && abs(dz) == radius {
				continue
			}
			p.Place(base.Add(dx, stemHeight, dz), capBlock)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
