package engine

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/voxel-streamer/internal/config"
	"github.com/OCharnyshevich/voxel-streamer/internal/render"
	"github.com/OCharnyshevich/voxel-streamer/internal/streamer"
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	cfg.RenderDistance = 1
	cfg.Workers = 2
	cfg.Terrain = "flat"
	cfg.FrameInterval = time.Millisecond
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config) (*Engine, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder()
	e, err := New(cfg, rec, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, rec
}

// settle steps until the world stops changing.
func settle(e *Engine, pos mgl32.Vec3) {
	for range 10 {
		e.Step(pos)
		e.Settle()
	}
	e.Step(pos)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RenderDistance = 0
	_, err := New(cfg, render.NewRecorder(), testLogger())
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewRejectsMissingDataPack(t *testing.T) {
	cfg := testConfig()
	cfg.DataPack = t.TempDir()
	_, err := New(cfg, render.NewRecorder(), testLogger())
	assert.Error(t, err)
}

func TestStepLoadsAroundObserver(t *testing.T) {
	e, rec := newTestEngine(t, testConfig())
	settle(e, mgl32.Vec3{})

	// radius 2 scans [-2, 2) on every axis
	assert.Equal(t, 64, e.World().LoadedChunkCount())
	live, _, _ := rec.Stats()
	assert.Positive(t, live)
	assert.GreaterOrEqual(t, e.World().MeshCount(), live)

	s := e.Stats()
	assert.Equal(t, 64, s.LoadedChunks)
	assert.Equal(t, 0, s.PendingChunks)
	assert.Equal(t, 0, s.QueuedJobs)
}

func TestFlatTerrainSurface(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	settle(e, mgl32.Vec3{})

	surface, ok := e.World().GetBlock(voxel.BlockCoord{X: 3, Y: 4, Z: 3})
	require.True(t, ok)
	assert.NotEqual(t, voxel.Air, surface)

	sky, ok := e.World().GetBlock(voxel.BlockCoord{X: 3, Y: 60, Z: 3})
	require.True(t, ok)
	assert.Equal(t, voxel.Air, sky)
}

func TestSetBlockThroughEngine(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	settle(e, mgl32.Vec3{})

	at := voxel.BlockCoord{X: 5, Y: 40, Z: 5}
	stone := e.Content().Blocks.Stone
	require.NoError(t, e.World().SetBlock(at, stone))

	got, ok := e.World().GetBlock(at)
	require.True(t, ok)
	assert.Equal(t, stone, got)

	err := e.World().SetBlock(voxel.BlockCoord{X: 10_000, Y: 0, Z: 0}, stone)
	assert.ErrorIs(t, err, streamer.ErrChunkNotLoaded)
}

func TestGravityGate(t *testing.T) {
	cfg := testConfig()
	cfg.GravityChunkThreshold = 10
	e, _ := newTestEngine(t, cfg)

	assert.False(t, e.GravityReady())
	settle(e, mgl32.Vec3{})
	assert.True(t, e.GravityReady())
	assert.True(t, e.Stats().Gravity)
}

func TestGravityStaysOffBelowThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.GravityChunkThreshold = 1000
	e, _ := newTestEngine(t, cfg)

	settle(e, mgl32.Vec3{})
	assert.False(t, e.GravityReady())
}

func TestSameSeedSameTerrain(t *testing.T) {
	cfg := testConfig()
	cfg.Terrain = "default"
	a, _ := newTestEngine(t, cfg)
	b, _ := newTestEngine(t, cfg)

	for x := -64; x < 64; x += 7 {
		for z := -64; z < 64; z += 7 {
			assert.Equal(t, a.Generator().HeightAt(x, z), b.Generator().HeightAt(x, z))
		}
	}
	for x := -4; x < 4; x++ {
		for z := -4; z < 4; z++ {
			c := voxel.ChunkCoord{X: x, Z: z}
			assert.Equal(t, a.Generator().BiomeAt(c).Name(), b.Generator().BiomeAt(c).Name())
		}
	}
}

func TestWalkUnloadsBehind(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	settle(e, mgl32.Vec3{})

	far := mgl32.Vec3{float32(8 * voxel.ChunkSize), 0, 0}
	settle(e, far)

	_, ok := e.World().Chunk(voxel.ChunkCoord{})
	assert.False(t, ok)
	_, ok = e.World().Chunk(voxel.ChunkCoord{X: 8})
	assert.True(t, ok)
}

func TestRunStopsOnCancel(t *testing.T) {
	e, _ := newTestEngine(t, testConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	require.NoError(t, e.Run(ctx, Fixed{}))
	assert.Positive(t, e.Stats().Frame)
}

func TestObservers(t *testing.T) {
	tests := []struct {
		name  string
		obs   Observer
		frame int
		want  mgl32.Vec3
	}{
		{"fixed", Fixed{1, 1, 1}, 9, mgl32.Vec3{1, 1, 1}},
		{"walk start", Walk{Start: mgl32.Vec3{1, 2, 3}, Step: mgl32.Vec3{1, 0, 0}}, 0, mgl32.Vec3{1, 2, 3}},
		{"walk", Walk{Start: mgl32.Vec3{1, 2, 3}, Step: mgl32.Vec3{1, 0, 0}}, 3, mgl32.Vec3{4, 2, 3}},
		{"orbit start", Orbit{Radius: 10, Period: 4}, 0, mgl32.Vec3{10, 0, 0}},
		{"orbit without period", Orbit{Center: mgl32.Vec3{5, 5, 5}}, 7, mgl32.Vec3{5, 5, 5}},
	}
	for _, tt := range tests {
		if got := tt.obs.Position(tt.frame); !got.ApproxEqualThreshold(tt.want, 1e-4) {
			t.Errorf("%s: Position(%d) = %v, want %v", tt.name, tt.frame, got, tt.want)
		}
	}

	o := Orbit{Radius: 10, Period: 4}
	for frame := range 8 {
		if got := o.Position(frame).Len(); math.Abs(float64(got)-10) > 1e-4 {
			t.Errorf("orbit radius at frame %d = %f, want 10", frame, got)
		}
	}
}
