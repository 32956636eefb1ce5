// Package scan decides which chunks around an observer are loaded, meshed
// and evicted.
package scan

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// Hysteresis margins in chunks beyond the load radius.
const (
	unloadMargin           = 1
	unfinishedUnloadMargin = 3
)

// Scanner tracks an observer position and a radius in chunks.
type Scanner struct {
	pos    mgl32.Vec3
	center voxel.ChunkCoord
	radius int
}

// New creates a scanner centered on the origin.
func New(radius int) *Scanner {
	return &Scanner{radius: radius}
}

// SetPosition moves the scanner center to a world position.
func (s *Scanner) SetPosition(pos mgl32.Vec3) {
	s.pos = pos
	s.center = voxel.BlockCoord{
		X: int(math.Floor(float64(pos.X()))),
		Y: int(math.Floor(float64(pos.Y()))),
		Z: int(math.Floor(float64(pos.Z()))),
	}.Chunk()
}

// Position returns the observer position.
func (s *Scanner) Position() mgl32.Vec3 { return s.pos }

// Center returns the chunk containing the observer.
func (s *Scanner) Center() voxel.ChunkCoord { return s.center }

// Radius returns the load radius in chunks.
func (s *Scanner) Radius() int { return s.radius }

// Iterate yields every chunk of the load cube, side 2*radius, around the center.
func (s *Scanner) Iterate() iter.Seq[voxel.ChunkCoord] {
	c, r := s.center, s.radius
	return func(yield func(voxel.ChunkCoord) bool) {
		for dx := -r; dx < r; dx++ {
			for dy := -r; dy < r; dy++ {
				for dz := -r; dz < r; dz++ {
					if !yield(c.Add(dx, dy, dz)) {
						return
					}
				}
			}
		}
	}
}

// ShouldUnloadChunk reports whether a loaded chunk is out of range.
func (s *Scanner) ShouldUnloadChunk(c voxel.ChunkCoord) bool {
	return s.chebyshev(c) > s.radius+unloadMargin
}

// ShouldUnloadUnfinishedChunk reports whether pending generation state for c
// may be dropped. The bound is looser than ShouldUnloadChunk.
func (s *Scanner) ShouldUnloadUnfinishedChunk(c voxel.ChunkCoord) bool {
	return s.chebyshev(c) > s.radius+unfinishedUnloadMargin
}

// ShouldLoadMesh reports whether the chunk origin lies inside the mesh
// sphere of radius*ChunkSize around the observer.
func (s *Scanner) ShouldLoadMesh(c voxel.ChunkCoord) bool {
	o := c.Origin()
	d := mgl32.Vec3{float32(o.X), float32(o.Y), float32(o.Z)}.Sub(s.pos)
	limit := float32(s.radius * voxel.ChunkSize)
	return d.Dot(d) <= limit*limit
}

func (s *Scanner) chebyshev(c voxel.ChunkCoord) int {
	return max(abs(c.X-s.center.X), abs(c.Y-s.center.Y), abs(c.Z-s.center.Z))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
