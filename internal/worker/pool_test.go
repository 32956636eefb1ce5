package worker

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(4, testLogger())
	defer p.Close()

	var n atomic.Int32
	for range 100 {
		p.Submit(func() { n.Add(1) })
	}
	p.Wait()
	assert.Equal(t, int32(100), n.Load())
	assert.Equal(t, 0, p.Queued())
}

func TestPoolNestedSubmitSingleWorker(t *testing.T) {
	p := NewPool(1, testLogger())
	defer p.Close()

	var n atomic.Int32
	var spawn func(depth int)
	spawn = func(depth int) {
		n.Add(1)
		if depth == 0 {
			return
		}
		for range 3 {
			p.Submit(func() { spawn(depth - 1) })
		}
	}
	p.Submit(func() { spawn(3) })
	p.Wait()

	// 1 + 3 + 9 + 27
	assert.Equal(t, int32(40), n.Load())
}

func TestPoolCloseDrainsQueue(t *testing.T) {
	p := NewPool(2, testLogger())

	var n atomic.Int32
	for range 50 {
		p.Submit(func() { n.Add(1) })
	}
	require.NoError(t, p.Close())
	assert.Equal(t, int32(50), n.Load())

	p.Submit(func() { n.Add(1) })
	assert.Equal(t, int32(50), n.Load())
}

func TestResults(t *testing.T) {
	var r Results[int]
	p := NewPool(4, testLogger())
	defer p.Close()

	for i := range 20 {
		p.Submit(func() { r.Push(i) })
	}
	p.Wait()

	assert.Equal(t, 20, r.Len())
	got := r.Drain()
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, got)
	assert.Empty(t, r.Drain())
}
