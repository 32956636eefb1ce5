package registry

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

type testBiome struct{ name string }

func (b testBiome) Name() string          { return b.name }
func (testBiome) Layer(int) voxel.Block   { return voxel.Block{ID: 1} }
func (testBiome) Structures() []Structure { return nil }

type testStructure struct {
	name   string
	chance float64
}

func (s testStructure) Name() string                                { return s.name }
func (s testStructure) Chance() float64                             { return s.chance }
func (testStructure) Generate(Placer, voxel.BlockCoord, *rand.Rand) {}

func TestAirIsZero(t *testing.T) {
	r := New(nil)
	id, ok := r.BlockIDByCodeName("air")
	require.True(t, ok)
	assert.Equal(t, uint16(0), id)
}

func TestRegisterBlockSequential(t *testing.T) {
	r := New(nil)
	stone := r.RegisterBlock(BlockType{CodeName: "stone"})
	dirt := r.RegisterBlock(BlockType{CodeName: "dirt"})

	assert.Equal(t, uint16(1), stone)
	assert.Equal(t, uint16(2), dirt)

	bt, ok := r.Block(stone)
	require.True(t, ok)
	assert.Equal(t, "Stone", bt.Name)
	assert.Equal(t, 15, bt.Durability)

	_, ok = r.Block(99)
	assert.False(t, ok)
}

func TestRegisterBlockDuplicatePanics(t *testing.T) {
	r := New(nil)
	r.RegisterBlock(BlockType{CodeName: "stone"})
	assert.Panics(t, func() { r.RegisterBlock(BlockType{CodeName: "stone"}) })
}

func TestRegisterConcurrent(t *testing.T) {
	r := New(nil)

	const n = 64
	ids := make([]uint16, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = r.RegisterBlock(BlockType{CodeName: fmt.Sprintf("block_%d", i)})
			r.RegisterBiome(testBiome{name: fmt.Sprintf("biome_%d", i)})
		}()
	}
	wg.Wait()

	seen := make(map[uint16]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Equal(t, n+1, r.BlockCount())
	assert.Equal(t, n, r.BiomeCount())
}

func TestBiomeLookup(t *testing.T) {
	r := New(nil)
	id := r.RegisterBiome(testBiome{name: "forest"})

	b, ok := r.Biome(id)
	require.True(t, ok)
	assert.Equal(t, "forest", b.Name())

	_, ok = r.Biome(id + 1)
	assert.False(t, ok)
}

func TestBlockByCodeNameUnknown(t *testing.T) {
	r := New(nil)
	_, err := r.BlockByCodeName("nope")
	assert.ErrorIs(t, err, ErrUnknownBlock)
	assert.Panics(t, func() { r.MustBlock("nope") })
}

func TestDurabilityAndMultiplier(t *testing.T) {
	r := New(nil)
	stone := r.RegisterBlock(BlockType{CodeName: "stone"})
	custom := r.RegisterBlock(BlockType{CodeName: "glow_moss"})

	assert.Equal(t, 15, r.Durability(stone))
	assert.Equal(t, -1, r.Durability(custom))
	assert.Equal(t, -1, r.Durability(500))

	assert.Equal(t, 4.0, r.Multiplier(stone, "pickaxe"))
	assert.Equal(t, 1.0, r.Multiplier(stone, "shovel"))
	assert.Equal(t, 1.0, r.Multiplier(custom, "pickaxe"))
}

func TestFaceUV(t *testing.T) {
	r := New(nil)
	grass := r.RegisterBlock(BlockType{CodeName: "grass"})

	// grass top is cell 0 of a 16x16 grid.
	top := r.FaceUV(grass, voxel.FaceTop)
	assert.Equal(t, [4]mgl32.Vec2{{1.0 / 16, 1.0 / 16}, {1.0 / 16, 0}, {0, 0}, {0, 1.0 / 16}}, top)

	// grass sides are cell 3.
	side := r.FaceUV(grass, voxel.FaceRight)
	assert.InDelta(t, 4.0/16, side[0].X(), 1e-6)
	assert.InDelta(t, 3.0/16, side[2].X(), 1e-6)
}

func TestPickStructure(t *testing.T) {
	a := testStructure{"a", 0.1}
	b := testStructure{"b", 0.2}
	list := []Structure{a, b}

	tests := []struct {
		u    float64
		want Structure
	}{
		{0.0, a},
		{0.099, a},
		{0.1, b},
		{0.29, b},
		{0.3, nil},
		{0.99, nil},
	}
	for _, tt := range tests {
		if got := PickStructure(list, tt.u); got != tt.want {
			t.Errorf("PickStructure(%v) = %v, want %v", tt.u, got, tt.want)
		}
	}
}

func TestLoadDataPack(t *testing.T) {
	dir := t.TempDir()
	src := `{"grid": 4, "blocks": {"stone": {"name": "Rock", "faces": [1,1,1,1,1,1]}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataPackFile), []byte(src), 0o644))

	dp, err := LoadDataPack(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, dp.Grid)

	r := New(dp)
	bt, _ := r.Block(r.RegisterBlock(BlockType{CodeName: "stone"}))
	assert.Equal(t, "Rock", bt.Name)
	assert.Equal(t, -1, bt.Durability)
}

func TestLoadDataPackErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not json", `{`},
		{"missing grid", `{"blocks": {}}`},
		{"short faces", `{"grid": 2, "blocks": {"stone": {"name": "Stone", "faces": [0,0,0]}}}`},
		{"bad code name", `{"grid": 2, "blocks": {"Stone!": {"name": "Stone", "faces": [0,0,0,0,0,0]}}}`},
		{"cell outside grid", `{"grid": 2, "blocks": {"stone": {"name": "Stone", "faces": [0,0,0,0,0,4]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataPack([]byte(tt.src))
			assert.Error(t, err)
		})
	}

	_, err := LoadDataPack(t.TempDir())
	assert.Error(t, err)
}
