package gen

import (
	"fmt"
	"math/rand/v2"

	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
)

// Scheduler runs jobs in the background. Submit must not block.
type Scheduler interface {
	Submit(job func())
}

// Options configures a TerrainGenerator.
type Options struct {
	Seed int64
	// Noise selects the biome noise backend, "perlin" or "simplex".
	Noise string
	// Terrain exists only in chunk layers MinChunkY..MaxChunkY.
	MinChunkY int
	MaxChunkY int
	Caves     bool
	Ores      []OreSpec
}

// TerrainGenerator fills chunks from noise, biomes and structures. It is
// immutable after construction and safe for concurrent use.
type TerrainGenerator struct {
	reg        *registry.Registry
	height     HeightSource
	biomeNoise Noise
	caves      *caveCarver
	ores       []ore
	stone      voxel.Block
	seed       int64
	minY, maxY int
}

// NewTerrainGenerator creates a generator. Blocks referenced by ores must
// already be registered.
func NewTerrainGenerator(reg *registry.Registry, height HeightSource, opts Options) (*TerrainGenerator, error) {
	biomeNoise, err := NewNoise(opts.Noise, opts.Seed+100)
	if err != nil {
		return nil, err
	}
	if opts.MinChunkY > opts.MaxChunkY {
		return nil, fmt.Errorf("vertical band %d..%d is empty", opts.MinChunkY, opts.MaxChunkY)
	}

	g := &TerrainGenerator{
		reg:        reg,
		height:     height,
		biomeNoise: biomeNoise,
		seed:       opts.Seed,
		minY:       opts.MinChunkY,
		maxY:       opts.MaxChunkY,
	}
	if opts.Caves {
		g.caves = newCaveCarver(opts.Seed)
	}
	if len(opts.Ores) > 0 {
		if g.stone, err = reg.BlockByCodeName("stone"); err != nil {
			return nil, fmt.Errorf("ore host: %w", err)
		}
		for _, spec := range opts.Ores {
			o, err := spec.resolve(reg)
			if err != nil {
				return nil, err
			}
			g.ores = append(g.ores, o)
		}
	}
	return g, nil
}

// GenerateChunk schedules generation of c and passes the finished chunk to
// done. Neighbors not marked in loaded are generated first so structures
// reaching into c are folded in. It never blocks: neighbor generation and
// the final fold run as jobs on s.
func (g *TerrainGenerator) GenerateChunk(loaded NeighborMask, c voxel.ChunkCoord, pt *PendingTable, s Scheduler, done func(*chunk.Chunk)) {
	claimed, awaited := pt.Reserve(c, loaded)
	for _, n := range claimed {
		s.Submit(func() { g.Gen(n, pt) })
	}
	pt.Await(awaited, func() {
		s.Submit(func() {
			data := pt.Take(c)
			pt.Unpin(awaited)
			done(chunk.New(c, data))
		})
	})
}

// GenerateChunkSync is GenerateChunk run on the calling goroutine. It blocks
// while neighbors claimed by other jobs are still generating.
func (g *TerrainGenerator) GenerateChunkSync(loaded NeighborMask, c voxel.ChunkCoord, pt *PendingTable) *chunk.Chunk {
	out := make(chan *chunk.Chunk, 1)
	g.GenerateChunk(loaded, c, pt, inline{}, func(ch *chunk.Chunk) { out <- ch })
	return <-out
}

type inline struct{}

func (inline) Submit(job func()) { job() }

// Gen runs the generation step of a single chunk and marks it finished.
// The caller must have claimed c.
func (g *TerrainGenerator) Gen(c voxel.ChunkCoord, pt *PendingTable) {
	if c.Y < g.minY || c.Y > g.maxY {
		pt.Finish(c, nil)
		return
	}

	w := newWriter(c)
	biome := g.biomeAt(c)

	var heights [voxel.ChunkSize][voxel.ChunkSize]int
	g.fill(w, biome, &heights)
	if g.caves != nil {
		g.caves.carve(w, &heights)
	}
	g.placeOres(w)
	g.decorate(w, biome, &heights)

	// Overflow must be recorded before c is seen as finished.
	pt.OverflowBatch(c, w.overflow)
	pt.Finish(c, w.data)
}

// fill lays out columns below the surface using the biome's layer rule.
func (g *TerrainGenerator) fill(w *writer, biome registry.Biome, heights *[voxel.ChunkSize][voxel.ChunkSize]int) {
	origin := w.coord.Origin()
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			h := g.height.Height(origin.X+x, origin.Z+z)
			heights[x][z] = h

			top := min(h-origin.Y, voxel.ChunkSize-1)
			for y := 0; y <= top; y++ {
				b := biome.Layer(h - (origin.Y + y))
				if !b.IsAir() {
					w.setLocal(voxel.LocalPos{X: x, Y: y, Z: z}, b)
				}
			}
		}
	}
}

// decorate invokes the biome's structures at each exposed surface voxel.
func (g *TerrainGenerator) decorate(w *writer, biome registry.Biome, heights *[voxel.ChunkSize][voxel.ChunkSize]int) {
	structures := biome.Structures()
	if len(structures) == 0 {
		return
	}

	origin := w.coord.Origin()
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			y := heights[x][z] - origin.Y
			if y < 0 || y >= voxel.ChunkSize {
				continue
			}
			p := voxel.LocalPos{X: x, Y: y, Z: z}
			if w.getLocal(p).IsAir() {
				continue
			}

			rng := voxelRand(g.seed, w.coord, p)
			s := registry.PickStructure(structures, rng.Float64())
			if s == nil {
				continue
			}
			s.Generate(w, w.coord.Block(p), rng)
		}
	}
}

// biomeAt picks a biome per chunk column from a low-frequency noise field.
func (g *TerrainGenerator) biomeAt(c voxel.ChunkCoord) registry.Biome {
	count := g.reg.BiomeCount()
	if count == 0 {
		panic("gen: no biomes registered")
	}

	nx := (float64(c.X) + 0.5) / 6.0
	nz := (float64(c.Z) + 0.5) / 6.0
	idx := int(unit(Octave2D(g.biomeNoise, nx, nz, 2, 0.5)) * float64(count))
	idx = min(idx, count-1)

	b, ok := g.reg.Biome(idx)
	if !ok {
		panic(fmt.Sprintf("gen: biome %d not registered", idx))
	}
	return b
}

// BiomeAt returns the biome chosen for chunk c.
func (g *TerrainGenerator) BiomeAt(c voxel.ChunkCoord) registry.Biome { return g.biomeAt(c) }

// HeightAt returns the surface height of the column at world (x, z).
func (g *TerrainGenerator) HeightAt(x, z int) int { return g.height.Height(x, z) }

// seedFor derives a per-chunk seed from the world seed.
func seedFor(seed int64, c voxel.ChunkCoord, salt int64) int64 {
	return seed ^ (int64(c.X)*341873128712 + int64(c.Z)*132897987541 + int64(c.Y)*2654435761 + salt)
}

// voxelRand returns the random source for a surface voxel. The same world
// seed, chunk and position always give the same sequence.
func voxelRand(seed int64, c voxel.ChunkCoord, p voxel.LocalPos) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seedFor(seed, c, 600)), uint64(p.Index())))
}
