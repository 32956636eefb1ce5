package gen

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
)

// Write is a buffered block placement for a chunk.
type Write struct {
	Pos   voxel.LocalPos
	Block voxel.Block

	src voxel.ChunkCoord
	seq int
}

type entry struct {
	data     *chunk.Data
	overflow []Write
	started  bool
	finished bool
	pins     int
	waiters  []func()
}

// PendingTable buffers generation state shared by in-flight generation jobs:
// partially generated voxel data, overflow writes from neighboring
// structures, and completion tracking. It is safe for concurrent use.
type PendingTable struct {
	mu      sync.Mutex
	entries map[voxel.ChunkCoord]*entry
	// sealed holds finalized chunks; overflow for them is collected in late.
	sealed map[voxel.ChunkCoord]struct{}
	late   map[voxel.ChunkCoord][]Write
	seq    int
}

// NewPendingTable creates an empty table.
func NewPendingTable() *PendingTable {
	return &PendingTable{
		entries: make(map[voxel.ChunkCoord]*entry),
		sealed:  make(map[voxel.ChunkCoord]struct{}),
		late:    make(map[voxel.ChunkCoord][]Write),
	}
}

func (t *PendingTable) upsert(c voxel.ChunkCoord) *entry {
	e, ok := t.entries[c]
	if !ok {
		e = &entry{}
		t.entries[c] = e
	}
	return e
}

// Len returns the number of live entries.
func (t *PendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Started reports whether generation of c has been claimed.
func (t *PendingTable) Started(c voxel.ChunkCoord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[c]
	return ok && e.started
}

// Finished reports whether the generation step of c has completed.
func (t *PendingTable) Finished(c voxel.ChunkCoord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[c]
	return ok && e.finished
}

// Claim marks c as started and reports whether the caller won the claim.
func (t *PendingTable) Claim(c voxel.ChunkCoord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sealed[c]; ok {
		return false
	}
	e := t.upsert(c)
	if e.started {
		return false
	}
	e.started = true
	return true
}

// Reserve prepares generation of target. Every chunk of its 3×3×3
// neighborhood that is neither marked in loaded nor sealed is pinned and
// returned in awaited; those whose generation nobody started yet are
// claimed for the caller and returned in claimed.
func (t *PendingTable) Reserve(target voxel.ChunkCoord, loaded NeighborMask) (claimed, awaited []voxel.ChunkCoord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	Neighborhood(target, func(n voxel.ChunkCoord, dx, dy, dz int) {
		if loaded.Has(dx, dy, dz) {
			return
		}
		if _, ok := t.sealed[n]; ok {
			return
		}
		e := t.upsert(n)
		e.pins++
		awaited = append(awaited, n)
		if !e.started {
			e.started = true
			claimed = append(claimed, n)
		}
	})
	return claimed, awaited
}

// Await calls fn once every coordinate in coords is finished. fn runs on
// the goroutine that finishes the last one, or immediately if all are done.
// Coordinates must be pinned by the caller.
func (t *PendingTable) Await(coords []voxel.ChunkCoord, fn func()) {
	var remaining atomic.Int32
	remaining.Store(1)
	done := func() {
		if remaining.Add(-1) == 0 {
			fn()
		}
	}

	t.mu.Lock()
	for _, c := range coords {
		e, ok := t.entries[c]
		if !ok {
			if _, sealed := t.sealed[c]; sealed {
				continue
			}
			t.mu.Unlock()
			panic(fmt.Sprintf("gen: await on unknown chunk %v", c))
		}
		if e.finished {
			continue
		}
		remaining.Add(1)
		e.waiters = append(e.waiters, done)
	}
	t.mu.Unlock()

	done()
}

// Unpin releases pins taken by Reserve.
func (t *PendingTable) Unpin(coords []voxel.ChunkCoord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, c := range coords {
		if e, ok := t.entries[c]; ok && e.pins > 0 {
			e.pins--
		}
	}
}

// Finish stores the generated data of c and wakes its waiters.
func (t *PendingTable) Finish(c voxel.ChunkCoord, data *chunk.Data) {
	t.mu.Lock()
	e := t.upsert(c)
	if e.finished {
		t.mu.Unlock()
		panic(fmt.Sprintf("gen: chunk %v finished twice", c))
	}
	e.started = true
	e.finished = true
	e.data = data
	waiters := e.waiters
	e.waiters = nil
	t.mu.Unlock()

	for _, w := range waiters {
		w()
	}
}

// Overflow appends a write for a chunk other than the one being generated.
func (t *PendingTable) Overflow(c voxel.ChunkCoord, pos voxel.LocalPos, b voxel.Block) {
	t.OverflowBatch(voxel.ChunkCoord{}, map[voxel.ChunkCoord][]Write{c: {{Pos: pos, Block: b}}})
}

// OverflowBatch records writes issued by the generation of src.
func (t *PendingTable) OverflowBatch(src voxel.ChunkCoord, writes map[voxel.ChunkCoord][]Write) {
	if len(writes) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for c, ws := range writes {
		for i := range ws {
			ws[i].src = src
			ws[i].seq = t.seq
			t.seq++
		}
		if _, ok := t.sealed[c]; ok {
			t.late[c] = append(t.late[c], ws...)
			continue
		}
		e := t.upsert(c)
		e.overflow = append(e.overflow, ws...)
	}
}

// Take removes the entry of c and returns its data with all overflow writes
// folded in. The chunk is sealed until Release. Take panics if the entry is
// missing or its generation has not finished.
func (t *PendingTable) Take(c voxel.ChunkCoord) *chunk.Data {
	t.mu.Lock()
	e, ok := t.entries[c]
	if !ok {
		t.mu.Unlock()
		panic(fmt.Sprintf("gen: no pending entry for chunk %v", c))
	}
	if !e.finished {
		t.mu.Unlock()
		panic(fmt.Sprintf("gen: pending chunk %v folded before it finished", c))
	}
	delete(t.entries, c)
	t.sealed[c] = struct{}{}
	t.mu.Unlock()

	return fold(e.data, e.overflow)
}

// Release forgets that c was finalized, dropping any late writes for it.
func (t *PendingTable) Release(c voxel.ChunkCoord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sealed, c)
	delete(t.late, c)
}

// DrainLate returns and clears overflow that arrived after its target chunk
// was finalized.
func (t *PendingTable) DrainLate() map[voxel.ChunkCoord][]Write {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.late) == 0 {
		return nil
	}
	out := t.late
	t.late = make(map[voxel.ChunkCoord][]Write)
	for _, ws := range out {
		sortWrites(ws)
	}
	return out
}

// Evict removes entries for which evict returns true. Pinned entries and
// entries whose generation is in flight are kept.
func (t *PendingTable) Evict(evict func(voxel.ChunkCoord) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for c, e := range t.entries {
		if e.pins > 0 || (e.started && !e.finished) {
			continue
		}
		if evict(c) {
			delete(t.entries, c)
			n++
		}
	}
	return n
}

func fold(data *chunk.Data, overflow []Write) *chunk.Data {
	if len(overflow) == 0 {
		return data
	}
	if data == nil {
		data = new(chunk.Data)
	}
	sortWrites(overflow)
	for _, w := range overflow {
		data[w.Pos.Index()] = w.Block
	}
	return data
}

// sortWrites orders writes by source chunk so that folding is independent
// of the order in which neighbors finished.
func sortWrites(ws []Write) {
	sort.SliceStable(ws, func(i, j int) bool {
		a, b := ws[i].src, ws[j].src
		if a != b {
			if a.X != b.X {
				return a.X < b.X
			}
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.Z < b.Z
		}
		return ws[i].seq < ws[j].seq
	})
}

// PlaceBlockNear buffers b at world coordinate at in the pending entry of
// the chunk that owns it.
func PlaceBlockNear(at voxel.BlockCoord, b voxel.Block, t *PendingTable) {
	c, l := at.Split()
	t.Overflow(c, l, b)
}
