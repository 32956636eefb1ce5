package registry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-streamer/pkg/voxel"
)

// FaceUV returns the atlas coordinates of a block face. Blocks without atlas
// data use cell 0.
func (r *Registry) FaceUV(id uint16, f voxel.Face) [4]mgl32.Vec2 {
	cell := 0
	if bt, ok := r.Block(id); ok {
		cell = bt.Faces[f]
	}
	return cellUV(cell, r.pack.Grid)
}

func cellUV(cell, grid int) [4]mgl32.Vec2 {
	if grid <= 0 {
		grid = 1
	}
	row, col := cell/grid, cell%grid
	g := float32(grid)
	x, y := float32(col), float32(row)
	return [4]mgl32.Vec2{
		{(x + 1) / g, (y + 1) / g},
		{(x + 1) / g, y / g},
		{x / g, y / g},
		{x / g, (y + 1) / g},
	}
}
