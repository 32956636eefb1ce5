// Package streamer keeps the chunks and meshes around an observer in sync
// with a scanner.
package streamer

import (
	"errors"
	"iter"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-streamer/internal/render"
	"github.com/OCharnyshevich/voxel-streamer/internal/worker"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/gen"
)

// ErrChunkNotLoaded is returned when editing a chunk that is not resident.
var ErrChunkNotLoaded = errors.New("chunk not loaded")

// Generator produces chunks in the background.
type Generator interface {
	GenerateChunk(loaded gen.NeighborMask, c voxel.ChunkCoord, pt *gen.PendingTable, s gen.Scheduler, done func(*chunk.Chunk))
}

// Scanner decides which chunks are in range.
type Scanner interface {
	Iterate() iter.Seq[voxel.ChunkCoord]
	ShouldUnloadChunk(c voxel.ChunkCoord) bool
	ShouldUnloadUnfinishedChunk(c voxel.ChunkCoord) bool
	ShouldLoadMesh(c voxel.ChunkCoord) bool
}

type meshSlot struct {
	handle render.Handle
	drawn  bool
}

type meshResult struct {
	coord   voxel.ChunkCoord
	mesh    *chunk.Mesh
	version uint64
}

// Worldgen owns the loaded chunks and their meshes. Its methods must be
// called from a single goroutine; background jobs only hand results back
// through queues drained by PollChunkBuilds and BuildMeshes.
type Worldgen struct {
	log     *slog.Logger
	gen     Generator
	tex     chunk.TextureSource
	sched   gen.Scheduler
	render  render.Submitter
	pending *gen.PendingTable

	chunks          map[voxel.ChunkCoord]*chunk.Chunk
	meshes          map[voxel.ChunkCoord]meshSlot
	needsChunkBuild map[voxel.ChunkCoord]struct{}
	needsMeshBuild  map[voxel.ChunkCoord]struct{}
	meshInFlight    map[voxel.ChunkCoord]struct{}
	// late holds overflow for chunks finalized by a job whose result has
	// not been polled yet.
	late map[voxel.ChunkCoord][]gen.Write

	built  worker.Results[*chunk.Chunk]
	meshed worker.Results[meshResult]
}

// New creates an empty world.
func New(g Generator, tex chunk.TextureSource, sched gen.Scheduler, r render.Submitter, log *slog.Logger) *Worldgen {
	return &Worldgen{
		log:             log,
		gen:             g,
		tex:             tex,
		sched:           sched,
		render:          r,
		pending:         gen.NewPendingTable(),
		chunks:          make(map[voxel.ChunkCoord]*chunk.Chunk),
		meshes:          make(map[voxel.ChunkCoord]meshSlot),
		needsChunkBuild: make(map[voxel.ChunkCoord]struct{}),
		needsMeshBuild:  make(map[voxel.ChunkCoord]struct{}),
		meshInFlight:    make(map[voxel.ChunkCoord]struct{}),
		late:            make(map[voxel.ChunkCoord][]gen.Write),
	}
}

// Update runs one frame: scan, queue mesh rebuilds, poll chunk builds,
// build meshes, unload chunks, unload meshes.
func (w *Worldgen) Update(sc Scanner) {
	w.ScanChunks(sc)
	w.QueueMeshRebuild(sc)
	w.PollChunkBuilds()
	w.BuildMeshes(sc)
	w.UnloadChunks(sc)
	w.UnloadMeshes(sc)
}

// ScanChunks dispatches generation for every in-range chunk that is neither
// loaded nor queued. It returns the number of dispatched jobs.
func (w *Worldgen) ScanChunks(sc Scanner) int {
	n := 0
	for c := range sc.Iterate() {
		if _, ok := w.chunks[c]; ok {
			continue
		}
		if _, ok := w.needsChunkBuild[c]; ok {
			continue
		}
		w.needsChunkBuild[c] = struct{}{}
		mask := gen.LoadedMask(c, w.isLoaded)
		w.gen.GenerateChunk(mask, c, w.pending, w.sched, w.built.Push)
		n++
	}
	return n
}

// PollChunkBuilds moves finished chunks into the world.
func (w *Worldgen) PollChunkBuilds() int {
	done := w.built.Drain()
	for _, ch := range done {
		c := ch.Coord()
		w.chunks[c] = ch
		w.needsMeshBuild[c] = struct{}{}
		delete(w.needsChunkBuild, c)

		// Faces drawn toward the missing chunk may now be hidden.
		for _, f := range voxel.Faces {
			n := c.Neighbor(f)
			nch, loaded := w.chunks[n]
			if slot, ok := w.meshes[n]; ok && slot.drawn && loaded {
				nch.RequestUpdate()
			}
		}
	}

	for c, writes := range w.pending.DrainLate() {
		w.late[c] = append(w.late[c], writes...)
	}
	w.applyLate()
	return len(done)
}

// applyLate writes buffered overflow into loaded chunks. Writes for a chunk
// whose generation result is still on its way are kept; the rest belong to
// unloaded chunks and are dropped.
func (w *Worldgen) applyLate() {
	for c, writes := range w.late {
		if _, ok := w.chunks[c]; ok {
			for _, wr := range writes {
				w.set(c, wr.Pos, wr.Block)
			}
			delete(w.late, c)
			continue
		}
		if _, queued := w.needsChunkBuild[c]; !queued {
			delete(w.late, c)
		}
	}
}

// QueueMeshRebuild queues stale chunks and unmeshed non-empty chunks within
// mesh range.
func (w *Worldgen) QueueMeshRebuild(sc Scanner) {
	for c, ch := range w.chunks {
		if ch.NeedsUpdate() {
			w.needsMeshBuild[c] = struct{}{}
			continue
		}
		if ch.IsEmpty() {
			continue
		}
		if _, ok := w.meshes[c]; !ok && sc.ShouldLoadMesh(c) {
			w.needsMeshBuild[c] = struct{}{}
		}
	}
}

// BuildMeshes installs finished meshes and dispatches meshing for queued
// chunks whose six neighbors are loaded. It returns the number of
// dispatched jobs.
func (w *Worldgen) BuildMeshes(sc Scanner) int {
	for _, r := range w.meshed.Drain() {
		w.installMesh(r)
	}

	n := 0
	for c := range w.needsMeshBuild {
		ch, ok := w.chunks[c]
		if !ok {
			delete(w.needsMeshBuild, c)
			continue
		}
		if _, busy := w.meshInFlight[c]; busy {
			continue
		}
		if ch.IsEmpty() {
			ch.SetUpdated(ch.Version())
			delete(w.needsMeshBuild, c)
			continue
		}
		if !sc.ShouldLoadMesh(c) {
			continue
		}

		var nb chunk.Neighbors
		complete := true
		for _, f := range voxel.Faces {
			other, ok := w.chunks[c.Neighbor(f)]
			if !ok {
				complete = false
				break
			}
			nb[f] = other.Snapshot()
		}
		if !complete {
			continue
		}

		data, version := ch.Snapshot(), ch.Version()
		w.meshInFlight[c] = struct{}{}
		delete(w.needsMeshBuild, c)
		w.sched.Submit(func() {
			w.meshed.Push(meshResult{coord: c, mesh: chunk.GenMesh(data, nb, w.tex), version: version})
		})
		n++
	}
	return n
}

func (w *Worldgen) installMesh(r meshResult) {
	delete(w.meshInFlight, r.coord)

	ch, ok := w.chunks[r.coord]
	if !ok {
		return
	}
	if old, ok := w.meshes[r.coord]; ok && old.drawn {
		w.render.Release(old.handle)
	}

	slot := meshSlot{}
	if !r.mesh.Empty() {
		o := r.coord.Origin()
		slot.handle = w.render.Submit(r.mesh, mgl32.Vec3{float32(o.X), float32(o.Y), float32(o.Z)})
		slot.drawn = true
	}
	w.meshes[r.coord] = slot

	// A newer edit keeps the chunk stale so it is meshed again.
	ch.SetUpdated(r.version)
}

// UnloadChunks evicts chunks and pending generation state out of range.
func (w *Worldgen) UnloadChunks(sc Scanner) int {
	n := 0
	for c := range w.chunks {
		if !sc.ShouldUnloadChunk(c) {
			continue
		}
		delete(w.chunks, c)
		delete(w.needsMeshBuild, c)
		delete(w.late, c)
		w.pending.Release(c)
		n++
	}
	evicted := w.pending.Evict(sc.ShouldUnloadUnfinishedChunk)
	if n > 0 || evicted > 0 {
		w.log.Debug("unloaded chunks", "chunks", n, "pending", evicted)
	}
	return n
}

// UnloadMeshes releases meshes outside the mesh sphere or without a chunk.
func (w *Worldgen) UnloadMeshes(sc Scanner) int {
	n := 0
	for c, slot := range w.meshes {
		_, loaded := w.chunks[c]
		if loaded && sc.ShouldLoadMesh(c) {
			continue
		}
		if slot.drawn {
			w.render.Release(slot.handle)
		}
		delete(w.meshes, c)
		n++
	}
	return n
}

// GetBlock returns the block at a world coordinate, or false when its
// chunk is not loaded.
func (w *Worldgen) GetBlock(at voxel.BlockCoord) (voxel.Block, bool) {
	c, l := at.Split()
	ch, ok := w.chunks[c]
	if !ok {
		return voxel.Air, false
	}
	return ch.Get(l), true
}

// SetBlock writes a block at a world coordinate. Writes to unloaded chunks
// are logged and return ErrChunkNotLoaded.
func (w *Worldgen) SetBlock(at voxel.BlockCoord, b voxel.Block) error {
	c, l := at.Split()
	if _, ok := w.chunks[c]; !ok {
		w.log.Error("set block in unloaded chunk", "block", at, "chunk", c)
		return ErrChunkNotLoaded
	}
	w.set(c, l, b)
	return nil
}

// set writes to a loaded chunk and flags the six adjacent chunks when the
// voxel changed.
func (w *Worldgen) set(c voxel.ChunkCoord, l voxel.LocalPos, b voxel.Block) bool {
	ch, ok := w.chunks[c]
	if !ok || !ch.Set(l, b) {
		return false
	}
	for _, f := range voxel.Faces {
		if n, ok := w.chunks[c.Neighbor(f)]; ok {
			n.RequestUpdate()
		}
	}
	return true
}

func (w *Worldgen) isLoaded(c voxel.ChunkCoord) bool {
	_, ok := w.chunks[c]
	return ok
}

// LoadedChunkCount returns the number of resident chunks.
func (w *Worldgen) LoadedChunkCount() int { return len(w.chunks) }

// MeshCount returns the number of meshed chunks, including chunks whose
// mesh has no visible faces.
func (w *Worldgen) MeshCount() int { return len(w.meshes) }

// IsBuildPending reports whether generation of c is queued or running.
func (w *Worldgen) IsBuildPending(c voxel.ChunkCoord) bool {
	_, ok := w.needsChunkBuild[c]
	return ok
}

// PendingChunkBuilds returns the number of queued or running generations.
func (w *Worldgen) PendingChunkBuilds() int { return len(w.needsChunkBuild) }

// PendingMeshBuilds returns the number of chunks waiting for a mesh.
func (w *Worldgen) PendingMeshBuilds() int { return len(w.needsMeshBuild) + len(w.meshInFlight) }

// Chunk returns a loaded chunk.
func (w *Worldgen) Chunk(c voxel.ChunkCoord) (*chunk.Chunk, bool) {
	ch, ok := w.chunks[c]
	return ch, ok
}

// Chunks yields the loaded chunks.
func (w *Worldgen) Chunks() iter.Seq2[voxel.ChunkCoord, *chunk.Chunk] {
	return func(yield func(voxel.ChunkCoord, *chunk.Chunk) bool) {
		for c, ch := range w.chunks {
			if !yield(c, ch) {
				return
			}
		}
	}
}

// MeshHandle returns the render handle of a drawn chunk mesh.
func (w *Worldgen) MeshHandle(c voxel.ChunkCoord) (render.Handle, bool) {
	slot, ok := w.meshes[c]
	return slot.handle, ok && slot.drawn
}

// Pending returns the shared cross-chunk generation table.
func (w *Worldgen) Pending() *gen.PendingTable { return w.pending }
