package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// ErrUnknownBlock is returned when a code name has no registered block.
var ErrUnknownBlock = errors.New("unknown block")

// Registry maps stable names to block and biome ids. IDs are handed out in
// registration order and never reused.
type Registry struct {
	mu         sync.RWMutex
	pack       *DataPack
	blocks     []BlockType
	byCodeName map[string]uint16
	biomes     []Biome
}

// New creates a registry whose block metadata comes from pack. A nil pack
// uses the built-in data pack. Air is registered as block 0.
func New(pack *DataPack) *Registry {
	if pack == nil {
		pack = DefaultDataPack()
	}
	r := &Registry{
		pack:       pack,
		byCodeName: make(map[string]uint16),
	}
	r.RegisterBlock(BlockType{CodeName: "air", Name: "Air"})
	return r
}

// RegisterBlock assigns the next block id to bt and returns it. Fields left
// zero are filled from the data pack entry with the same code name.
func (r *Registry) RegisterBlock(bt BlockType) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byCodeName[bt.CodeName]; dup {
		panic(fmt.Sprintf("registry: block %q registered twice", bt.CodeName))
	}
	if len(r.blocks) > int(^uint16(0)) {
		panic("registry: block id space exhausted")
	}

	id := uint16(len(r.blocks))
	bt.ID = id
	r.pack.fill(&bt)
	r.blocks = append(r.blocks, bt)
	r.byCodeName[bt.CodeName] = id
	return id
}

// RegisterBiome assigns the next biome id to b and returns it.
func (r *Registry) RegisterBiome(b Biome) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := len(r.biomes)
	r.biomes = append(r.biomes, b)
	return id
}

// Block returns the block type registered under id.
func (r *Registry) Block(id uint16) (BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(id) >= len(r.blocks) {
		return BlockType{}, false
	}
	return r.blocks[id], true
}

// Biome returns the biome registered under id.
func (r *Registry) Biome(id int) (Biome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 || id >= len(r.biomes) {
		return nil, false
	}
	return r.biomes[id], true
}

// BlockIDByCodeName returns the id registered under a code name.
func (r *Registry) BlockIDByCodeName(name string) (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCodeName[name]
	return id, ok
}

// BlockByCodeName returns a block value for a code name.
func (r *Registry) BlockByCodeName(name string) (voxel.Block, error) {
	id, ok := r.BlockIDByCodeName(name)
	if !ok {
		return voxel.Air, fmt.Errorf("%w: %s", ErrUnknownBlock, name)
	}
	return voxel.Block{ID: id}, nil
}

// MustBlock is like BlockByCodeName but panics on unknown names.
func (r *Registry) MustBlock(name string) voxel.Block {
	b, err := r.BlockByCodeName(name)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return b
}

// BlockCount returns the number of registered blocks, air included.
func (r *Registry) BlockCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blocks)
}

// BiomeCount returns the number of registered biomes.
func (r *Registry) BiomeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.biomes)
}

// Durability returns the block's durability, or -1 if unknown.
func (r *Registry) Durability(id uint16) int {
	bt, ok := r.Block(id)
	if !ok {
		return -1
	}
	return bt.Durability
}

// Multiplier returns the mining speed factor of tool against the block,
// defaulting to 1.
func (r *Registry) Multiplier(id uint16, tool string) float64 {
	bt, ok := r.Block(id)
	if !ok {
		return 1
	}
	if m, ok := bt.Multiplier[tool]; ok {
		return m
	}
	return 1
}
