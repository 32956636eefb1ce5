package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	m := &chunk.Mesh{Indices: make([]uint32, 12)}

	a := r.Submit(m, mgl32.Vec3{32, 0, 0})
	b := r.Submit(m, mgl32.Vec3{64, 0, 0})
	require.NotEqual(t, a, b)

	e, ok := r.Get(a)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{32, 0, 0}, e.Origin)
	assert.Equal(t, 4, r.Quads())

	r.Release(a)
	r.Release(a)
	live, submitted, released := r.Stats()
	assert.Equal(t, 1, live)
	assert.Equal(t, 2, submitted)
	assert.Equal(t, 1, released)

	_, ok = r.Get(a)
	assert.False(t, ok)
}
