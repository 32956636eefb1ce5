package chunk

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

type flatTexture struct{}

func (flatTexture) FaceUV(_ uint16, _ voxel.Face) [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{{1, 1}, {1, 0}, {0, 0}, {0, 1}}
}

func single(p voxel.LocalPos, id uint16) *Data {
	d := new(Data)
	d[p.Index()] = voxel.Block{ID: id}
	return d
}

// hasFace reports whether m contains a quad with normal n whose corners are
// all at x == plane (for ±X faces).
func hasXFace(m *Mesh, n mgl32.Vec3, plane float32) bool {
	for q := 0; q < m.Quads(); q++ {
		i := m.Indices[q*6]
		if m.Normals[i] != n {
			continue
		}
		if m.Positions[i].X() == plane {
			return true
		}
	}
	return false
}

func TestGenMeshSingleVoxel(t *testing.T) {
	d := single(voxel.LocalPos{X: 5, Y: 5, Z: 5}, 1)
	m := GenMesh(d, Neighbors{}, flatTexture{})

	require.Equal(t, 6, m.Quads())
	assert.Len(t, m.Positions, 24)
	assert.Len(t, m.Normals, 24)
	assert.Len(t, m.UVs, 24)
	assert.Len(t, m.Indices, 36)
}

func TestGenMeshCullsInteriorFaces(t *testing.T) {
	d := new(Data)
	d[voxel.LocalPos{X: 5, Y: 5, Z: 5}.Index()] = voxel.Block{ID: 1}
	d[voxel.LocalPos{X: 6, Y: 5, Z: 5}.Index()] = voxel.Block{ID: 1}

	m := GenMesh(d, Neighbors{}, flatTexture{})
	assert.Equal(t, 10, m.Quads())
}

func TestGenMeshEmptyData(t *testing.T) {
	m := GenMesh(nil, Neighbors{}, flatTexture{})
	assert.True(t, m.Empty())
}

func TestGenMeshBoundaryNeighbor(t *testing.T) {
	edge := voxel.LocalPos{X: voxel.ChunkSize - 1, Y: 0, Z: 0}
	a := single(edge, 1)
	b := single(voxel.LocalPos{X: 0, Y: 0, Z: 0}, 1)
	right := mgl32.Vec3{1, 0, 0}

	var nb Neighbors
	nb[voxel.FaceRight] = b
	withNeighbor := GenMesh(a, nb, flatTexture{})
	assert.False(t, hasXFace(withNeighbor, right, voxel.ChunkSize), "shared face must be culled")
	assert.Equal(t, 5, withNeighbor.Quads())

	without := GenMesh(a, Neighbors{}, flatTexture{})
	assert.True(t, hasXFace(without, right, voxel.ChunkSize), "face toward absent neighbor must be drawn")
	assert.Equal(t, 6, without.Quads())
}

func TestGenMeshNegativeBoundary(t *testing.T) {
	a := single(voxel.LocalPos{X: 4, Y: 0, Z: 9}, 1)
	below := single(voxel.LocalPos{X: 4, Y: voxel.ChunkSize - 1, Z: 9}, 2)

	var nb Neighbors
	nb[voxel.FaceBottom] = below
	m := GenMesh(a, nb, flatTexture{})
	assert.Equal(t, 5, m.Quads())
	for _, n := range m.Normals {
		assert.NotEqual(t, mgl32.Vec3{0, -1, 0}, n)
	}
}

func TestGenMeshWinding(t *testing.T) {
	d := single(voxel.LocalPos{}, 1)
	m := GenMesh(d, Neighbors{}, flatTexture{})

	for q := 0; q < m.Quads(); q++ {
		i0, i1, i2 := m.Indices[q*6], m.Indices[q*6+1], m.Indices[q*6+2]
		e1 := m.Positions[i1].Sub(m.Positions[i0])
		e2 := m.Positions[i2].Sub(m.Positions[i0])
		cross := e1.Cross(e2)
		if cross.Dot(m.Normals[i0]) <= 0 {
			t.Errorf("quad %d winds against its normal %v", q, m.Normals[i0])
		}
	}
}

func TestGenMeshDeterministic(t *testing.T) {
	d := new(Data)
	for i := 0; i < voxel.ChunkVolume; i += 7 {
		d[i] = voxel.Block{ID: 2}
	}
	a := GenMesh(d, Neighbors{}, flatTexture{})
	b := GenMesh(d, Neighbors{}, flatTexture{})
	assert.Equal(t, a, b)
}
