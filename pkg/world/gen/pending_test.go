package gen

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
)

func TestClaimIsExclusive(t *testing.T) {
	pt := NewPendingTable()
	c := voxel.ChunkCoord{X: 4, Y: -1, Z: 2}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pt.Claim(c) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, pt.Started(c))
	assert.False(t, pt.Finished(c))
}

func TestReserveSkipsLoadedAndClaimsRest(t *testing.T) {
	pt := NewPendingTable()
	target := voxel.ChunkCoord{}
	require.True(t, pt.Claim(voxel.ChunkCoord{X: 1}))

	claimed, awaited := pt.Reserve(target, MaskBit(0, 1, 0))
	assert.Len(t, awaited, 26)
	assert.Len(t, claimed, 25)
	assert.NotContains(t, claimed, voxel.ChunkCoord{X: 1})
	assert.NotContains(t, awaited, voxel.ChunkCoord{Y: 1})
}

func TestTakeFoldsOverflow(t *testing.T) {
	pt := NewPendingTable()
	c := voxel.ChunkCoord{}
	p := voxel.LocalPos{X: 1, Y: 2, Z: 3}

	pt.Overflow(c, p, voxel.Block{ID: 9})
	require.True(t, pt.Claim(c))
	pt.Finish(c, nil)

	data := pt.Take(c)
	require.NotNil(t, data, "overflow must allocate data")
	assert.Equal(t, voxel.Block{ID: 9}, data[p.Index()])
	assert.Equal(t, 0, pt.Len())
}

func TestOverflowOverridesGenerated(t *testing.T) {
	pt := NewPendingTable()
	c := voxel.ChunkCoord{}
	p := voxel.LocalPos{}

	data := new(chunk.Data)
	data[p.Index()] = voxel.Block{ID: 1}
	pt.Claim(c)
	pt.Finish(c, data)
	pt.Overflow(c, p, voxel.Block{ID: 2})

	assert.Equal(t, voxel.Block{ID: 2}, pt.Take(c)[p.Index()])
}

func TestTakeRequiresFinished(t *testing.T) {
	pt := NewPendingTable()
	assert.Panics(t, func() { pt.Take(voxel.ChunkCoord{}) }, "missing entry")

	pt.Claim(voxel.ChunkCoord{})
	assert.Panics(t, func() { pt.Take(voxel.ChunkCoord{}) }, "unfinished entry")
}

func TestFinishTwicePanics(t *testing.T) {
	pt := NewPendingTable()
	pt.Finish(voxel.ChunkCoord{}, nil)
	assert.Panics(t, func() { pt.Finish(voxel.ChunkCoord{}, nil) })
}

func TestAwaitCountsDown(t *testing.T) {
	pt := NewPendingTable()
	a, b := voxel.ChunkCoord{X: 1}, voxel.ChunkCoord{X: 2}
	pt.Claim(a)
	pt.Claim(b)
	pt.Finish(a, nil)

	calls := 0
	pt.Await([]voxel.ChunkCoord{a, b}, func() { calls++ })
	assert.Equal(t, 0, calls)

	pt.Finish(b, nil)
	assert.Equal(t, 1, calls)

	pt.Await([]voxel.ChunkCoord{a, b}, func() { calls++ })
	assert.Equal(t, 2, calls, "already finished coordinates fire immediately")
}

func TestEvictKeepsPinnedAndInFlight(t *testing.T) {
	pt := NewPendingTable()
	inFlight := voxel.ChunkCoord{X: 1}
	done := voxel.ChunkCoord{X: 2}
	pinned := voxel.ChunkCoord{X: 3}
	overflowOnly := voxel.ChunkCoord{X: 4}

	pt.Claim(inFlight)
	pt.Claim(done)
	pt.Finish(done, nil)
	_, awaited := pt.Reserve(pinned, ^NeighborMask(0)&^MaskBit(0, 0, 0))
	require.Equal(t, []voxel.ChunkCoord{pinned}, awaited)
	pt.Overflow(overflowOnly, voxel.LocalPos{}, voxel.Block{ID: 1})

	n := pt.Evict(func(voxel.ChunkCoord) bool { return true })
	assert.Equal(t, 2, n)
	assert.True(t, pt.Started(inFlight))
	assert.True(t, pt.Started(pinned))
	assert.False(t, pt.Finished(done))
}

func TestLateOverflowAfterTake(t *testing.T) {
	pt := NewPendingTable()
	c := voxel.ChunkCoord{Y: 1}
	pt.Claim(c)
	pt.Finish(c, nil)
	pt.Take(c)

	assert.False(t, pt.Claim(c), "finalized chunk cannot be claimed")
	PlaceBlockNear(c.Block(voxel.LocalPos{X: 5}), voxel.Block{ID: 3}, pt)
	assert.Equal(t, 0, pt.Len())

	late := pt.DrainLate()
	require.Len(t, late[c], 1)
	assert.Equal(t, voxel.LocalPos{X: 5}, late[c][0].Pos)
	assert.Nil(t, pt.DrainLate())

	pt.Release(c)
	assert.True(t, pt.Claim(c))
}

func TestMaskBits(t *testing.T) {
	seen := NeighborMask(0)
	Neighborhood(voxel.ChunkCoord{}, func(_ voxel.ChunkCoord, dx, dy, dz int) {
		bit := MaskBit(dx, dy, dz)
		assert.Zero(t, seen&bit, "bit reused for (%d,%d,%d)", dx, dy, dz)
		seen |= bit
	})
	assert.Equal(t, NeighborMask(1<<27-1), seen)

	m := LoadedMask(voxel.ChunkCoord{}, func(c voxel.ChunkCoord) bool { return c.X == 1 })
	assert.True(t, m.Has(1, 0, 0))
	assert.True(t, m.Has(1, -1, 1))
	assert.False(t, m.Has(0, 0, 0))
	assert.False(t, m.Has(-1, 0, 0))
}
