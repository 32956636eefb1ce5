package voxel

import "fmt"

// ChunkSize is the edge length of a chunk in voxels.
const ChunkSize = 32

// ChunkVolume is the number of voxels in one chunk.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// Block is a single voxel. ID 0 is air.
type Block struct {
	ID uint16
}

// Air is the empty block.
var Air = Block{}

// IsAir reports whether b is the air block.
func (b Block) IsAir() bool { return b.ID == 0 }

// ChunkCoord identifies a chunk in chunk space.
type ChunkCoord struct{ X, Y, Z int }

// BlockCoord identifies a voxel in world space.
type BlockCoord struct{ X, Y, Z int }

// LocalPos is a voxel position inside a chunk. Each axis is in [0, ChunkSize).
type LocalPos struct{ X, Y, Z int }

func (c ChunkCoord) String() string { return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z) }

func (c BlockCoord) String() string { return fmt.Sprintf("[%d, %d, %d]", c.X, c.Y, c.Z) }

// Add returns c offset by (dx, dy, dz).
func (c ChunkCoord) Add(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{c.X + dx, c.Y + dy, c.Z + dz}
}

// Origin returns the world coordinate of the chunk's minimum corner.
func (c ChunkCoord) Origin() BlockCoord {
	return BlockCoord{c.X * ChunkSize, c.Y * ChunkSize, c.Z * ChunkSize}
}

// Block returns the world coordinate of local position p inside c.
func (c ChunkCoord) Block(p LocalPos) BlockCoord {
	return BlockCoord{c.X*ChunkSize + p.X, c.Y*ChunkSize + p.Y, c.Z*ChunkSize + p.Z}
}

// Add returns b offset by (dx, dy, dz).
func (b BlockCoord) Add(dx, dy, dz int) BlockCoord {
	return BlockCoord{b.X + dx, b.Y + dy, b.Z + dz}
}

// Chunk returns the chunk that contains b.
func (b BlockCoord) Chunk() ChunkCoord {
	return ChunkCoord{floorDiv(b.X), floorDiv(b.Y), floorDiv(b.Z)}
}

// Local returns the position of b inside its chunk.
func (b BlockCoord) Local() LocalPos {
	c := b.Chunk()
	return LocalPos{b.X - c.X*ChunkSize, b.Y - c.Y*ChunkSize, b.Z - c.Z*ChunkSize}
}

// Split returns the owning chunk and local position of b.
func (b BlockCoord) Split() (ChunkCoord, LocalPos) {
	return b.Chunk(), b.Local()
}

// InBounds reports whether p lies inside a chunk.
func (p LocalPos) InBounds() bool {
	return p.X >= 0 && p.X < ChunkSize && p.Y >= 0 && p.Y < ChunkSize && p.Z >= 0 && p.Z < ChunkSize
}

// Index returns the flat array index of p. Index = x*ChunkSize² + y*ChunkSize + z.
// Panics when p is out of range.
func (p LocalPos) Index() int {
	if !p.InBounds() {
		panic(fmt.Sprintf("voxel: local position %v out of range", p))
	}
	return (p.X*ChunkSize+p.Y)*ChunkSize + p.Z
}

// PosFromIndex is the inverse of LocalPos.Index.
func PosFromIndex(i int) LocalPos {
	if i < 0 || i >= ChunkVolume {
		panic(fmt.Sprintf("voxel: local index %d out of range", i))
	}
	return LocalPos{i / (ChunkSize * ChunkSize), (i / ChunkSize) % ChunkSize, i % ChunkSize}
}

func floorDiv(v int) int {
	q := v / ChunkSize
	if v%ChunkSize != 0 && v < 0 {
		q--
	}
	return q
}
