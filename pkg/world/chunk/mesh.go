package chunk

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// TextureSource maps a block face to its four atlas coordinates.
type TextureSource interface {
	FaceUV(id uint16, f voxel.Face) [4]mgl32.Vec2
}

// Neighbors holds the voxel arrays of the six adjacent chunks, indexed by
// voxel.Face. A nil entry is treated as air.
type Neighbors [6]*Data

// Mesh is the renderable surface of a chunk in chunk-local coordinates.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// Quads returns the number of faces in the mesh.
func (m *Mesh) Quads() int { return len(m.Indices) / 6 }

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// Corner offsets of each face, counter-clockwise seen from outside.
var facePoints = [6][4]mgl32.Vec3{
	voxel.FaceRight:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	voxel.FaceLeft:   {{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}},
	voxel.FaceBottom: {{1, 0, 0}, {1, 0, 1}, {0, 0, 1}, {0, 0, 0}},
	voxel.FaceTop:    {{1, 1, 1}, {1, 1, 0}, {0, 1, 0}, {0, 1, 1}},
	voxel.FaceFront:  {{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
	voxel.FaceBack:   {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
}

var faceNormals = [6]mgl32.Vec3{
	voxel.FaceRight:  {1, 0, 0},
	voxel.FaceLeft:   {-1, 0, 0},
	voxel.FaceBottom: {0, -1, 0},
	voxel.FaceTop:    {0, 1, 0},
	voxel.FaceFront:  {0, 0, 1},
	voxel.FaceBack:   {0, 0, -1},
}

var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// GenMesh extracts the visible faces of data. A face is emitted when the
// adjacent voxel is air, including voxels in absent neighbor chunks.
func GenMesh(data *Data, nb Neighbors, tex TextureSource) *Mesh {
	m := &Mesh{}
	if data == nil {
		return m
	}

	for i := range data {
		b := data[i]
		if b.IsAir() {
			continue
		}
		p := voxel.PosFromIndex(i)
		for _, f := range voxel.Faces {
			if !neighborAir(data, &nb, p, f) {
				continue
			}
			m.addFace(p, f, tex.FaceUV(b.ID, f))
		}
	}
	return m
}

func (m *Mesh) addFace(p voxel.LocalPos, f voxel.Face, uv [4]mgl32.Vec2) {
	base := uint32(len(m.Positions))
	origin := mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
	for k, pt := range facePoints[f] {
		m.Positions = append(m.Positions, origin.Add(pt))
		m.Normals = append(m.Normals, faceNormals[f])
		m.UVs = append(m.UVs, uv[k])
	}
	for _, idx := range quadIndices {
		m.Indices = append(m.Indices, base+idx)
	}
}

func neighborAir(data *Data, nb *Neighbors, p voxel.LocalPos, f voxel.Face) bool {
	dx, dy, dz := f.Offset()
	q := voxel.LocalPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
	if q.InBounds() {
		return data[q.Index()].IsAir()
	}

	other := nb[f]
	if other == nil {
		return true
	}
	q.X = wrap(q.X)
	q.Y = wrap(q.Y)
	q.Z = wrap(q.Z)
	return other[q.Index()].IsAir()
}

func wrap(v int) int {
	switch {
	case v < 0:
		return v + voxel.ChunkSize
	case v >= voxel.ChunkSize:
		return v - voxel.ChunkSize
	}
	return v
}
