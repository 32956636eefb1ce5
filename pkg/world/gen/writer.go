package gen

import (
	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/chunk"
)

// writer collects the output of one generation step. Writes inside the
// chunk go to data, the rest are buffered per target chunk.
type writer struct {
	coord    voxel.ChunkCoord
	data     *chunk.Data
	overflow map[voxel.ChunkCoord][]Write
}

func newWriter(c voxel.ChunkCoord) *writer {
	return &writer{coord: c, overflow: make(map[voxel.ChunkCoord][]Write)}
}

func (w *writer) setLocal(p voxel.LocalPos, b voxel.Block) {
	i := p.Index()
	if w.data == nil {
		if b.IsAir() {
			return
		}
		w.data = new(chunk.Data)
	}
	w.data[i] = b
}

func (w *writer) getLocal(p voxel.LocalPos) voxel.Block {
	i := p.Index()
	if w.data == nil {
		return voxel.Air
	}
	return w.data[i]
}

// Place writes b at a world coordinate.
func (w *writer) Place(at voxel.BlockCoord, b voxel.Block) {
	c, l := at.Split()
	if c == w.coord {
		w.setLocal(l, b)
		return
	}
	w.overflow[c] = append(w.overflow[c], Write{Pos: l, Block: b})
}

// Get reads a world coordinate. Voxels outside the chunk read as air.
func (w *writer) Get(at voxel.BlockCoord) voxel.Block {
	c, l := at.Split()
	if c != w.coord {
		return voxel.Air
	}
	return w.getLocal(l)
}
