package voxel

// Face is one of the six axis-aligned faces of a voxel.
type Face int

// Face order matches the atlas cell order in block data files.
const (
	FaceRight  Face = iota // +X
	FaceLeft               // -X
	FaceBottom             // -Y
	FaceTop                // +Y
	FaceFront              // +Z
	FaceBack               // -Z
)

// Faces lists every face in atlas order.
var Faces = [6]Face{FaceRight, FaceLeft, FaceBottom, FaceTop, FaceFront, FaceBack}

var faceNames = [6]string{"right", "left", "bottom", "top", "front", "back"}

func (f Face) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "unknown"
	}
	return faceNames[f]
}

// Offset returns the unit step pointing out of the face.
func (f Face) Offset() (dx, dy, dz int) {
	switch f {
	case FaceRight:
		return 1, 0, 0
	case FaceLeft:
		return -1, 0, 0
	case FaceBottom:
		return 0, -1, 0
	case FaceTop:
		return 0, 1, 0
	case FaceFront:
		return 0, 0, 1
	case FaceBack:
		return 0, 0, -1
	}
	return 0, 0, 0
}

// Neighbor returns the chunk adjacent to c across face f.
func (c ChunkCoord) Neighbor(f Face) ChunkCoord {
	dx, dy, dz := f.Offset()
	return c.Add(dx, dy, dz)
}
