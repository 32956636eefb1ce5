package gen

import (
	"fmt"
	"math/rand/v2"

	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// OreSpec describes veins of one ore. Veins replace stone only and stay
// inside the chunk they start in.
type OreSpec struct {
	Block    string // code name
	MinY     int    // world Y range
	MaxY     int
	VeinSize int // max blocks per vein
	Attempts int // veins per chunk
}

// DefaultOres is the standard ore distribution.
var DefaultOres = []OreSpec{
	{"coal_ore", -128, 64, 12, 12},
	{"iron_ore", -128, 0, 8, 10},
	{"gold_ore", -128, -48, 8, 2},
}

type ore struct {
	block voxel.Block
	spec  OreSpec
}

func (s OreSpec) resolve(reg *registry.Registry) (ore, error) {
	b, err := reg.BlockByCodeName(s.Block)
	if err != nil {
		return ore{}, fmt.Errorf("ore: %w", err)
	}
	if s.MaxY < s.MinY || s.VeinSize <= 0 {
		return ore{}, fmt.Errorf("ore %s: invalid range or vein size", s.Block)
	}
	return ore{block: b, spec: s}, nil
}

func (g *TerrainGenerator) placeOres(w *writer) {
	if len(g.ores) == 0 || w.data == nil {
		return
	}

	rng := rand.New(rand.NewPCG(uint64(seedFor(g.seed, w.coord, 500)), 0))
	originY := w.coord.Origin().Y

	for _, o := range g.ores {
		for range o.spec.Attempts {
			p := voxel.LocalPos{
				X: rng.IntN(voxel.ChunkSize),
				Y: rng.IntN(voxel.ChunkSize),
				Z: rng.IntN(voxel.ChunkSize),
			}
			wy := originY + p.Y
			if wy < o.spec.MinY || wy > o.spec.MaxY {
				continue
			}
			g.placeVein(w, p, o.block, o.spec.VeinSize, rng)
		}
	}
}

func (g *TerrainGenerator) placeVein(w *writer, p voxel.LocalPos, b voxel.Block, size int, rng *rand.Rand) {
	for range size {
		if p.InBounds() && w.getLocal(p) == g.stone {
			w.setLocal(p, b)
		}

		// Random walk.
		switch rng.IntN(6) {
		case 0:
			p.X++
		case 1:
			p.X--
		case 2:
			p.Y++
		case 3:
			p.Y--
		case 4:
			p.Z++
		case 5:
			p.Z--
		}
	}
}
