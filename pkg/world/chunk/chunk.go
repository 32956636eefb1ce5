package chunk

import (
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// Data is the dense voxel array of a chunk, indexed by voxel.LocalPos.Index.
type Data [voxel.ChunkVolume]voxel.Block

// Chunk is a cubic region of the world. A nil data array means all air.
type Chunk struct {
	coord       voxel.ChunkCoord
	data        *Data
	needsUpdate bool
	version     uint64
}

// New creates a chunk at coord holding data. data may be nil.
func New(coord voxel.ChunkCoord, data *Data) *Chunk {
	return &Chunk{coord: coord, data: data}
}

// Coord returns the chunk coordinate.
func (c *Chunk) Coord() voxel.ChunkCoord { return c.coord }

// IsEmpty reports whether the chunk has no voxel array.
func (c *Chunk) IsEmpty() bool { return c.data == nil }

// Get returns the block at p. Unallocated chunks return air.
func (c *Chunk) Get(p voxel.LocalPos) voxel.Block {
	i := p.Index()
	if c.data == nil {
		return voxel.Air
	}
	return c.data[i]
}

// Set stores b at p and reports whether the stored value changed.
// A change marks the chunk as needing a new mesh.
func (c *Chunk) Set(p voxel.LocalPos, b voxel.Block) bool {
	i := p.Index()
	if c.data == nil {
		if b.IsAir() {
			return false
		}
		c.data = new(Data)
	}
	if c.data[i] == b {
		return false
	}
	c.data[i] = b
	c.needsUpdate = true
	c.version++
	return true
}

// NeedsUpdate reports whether the mesh is stale.
func (c *Chunk) NeedsUpdate() bool { return c.needsUpdate }

// RequestUpdate marks the mesh stale without changing content, e.g. when a
// neighbor's boundary voxel changed.
func (c *Chunk) RequestUpdate() {
	c.needsUpdate = true
	c.version++
}

// Version increases on every content change or update request.
func (c *Chunk) Version() uint64 { return c.version }

// SetUpdated clears the stale flag if the chunk is still at version v.
// It reports whether the flag was cleared.
func (c *Chunk) SetUpdated(v uint64) bool {
	if c.version != v {
		return false
	}
	c.needsUpdate = false
	return true
}

// Snapshot returns a copy of the voxel array, or nil for an empty chunk.
func (c *Chunk) Snapshot() *Data {
	if c.data == nil {
		return nil
	}
	cp := *c.data
	return &cp
}
