package gen

import "math/rand/v2"

// Skew and unskew factors between input space and the simplex grid.
const (
	skew2   = 0.36602540378443864676 // (sqrt(3) - 1) / 2
	unskew2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0

	simplexStream = 0x51e7
)

// Edge midpoints of a cube; 2D lookups ignore the z component.
var gradients = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// SimplexNoise is a Noise backend built on a seeded permutation table.
// It is read-only after construction and safe for concurrent use.
type SimplexNoise struct {
	perm [512]uint8
}

// NewSimplexNoise shuffles the permutation table with a PCG stream derived
// from seed.
func NewSimplexNoise(seed int64) *SimplexNoise {
	rng := rand.New(rand.NewPCG(uint64(seed), simplexStream))
	n := &SimplexNoise{}
	for i, v := range rng.Perm(256) {
		n.perm[i] = uint8(v)
		n.perm[i+256] = uint8(v)
	}
	return n
}

func (n *SimplexNoise) grad2(i, j int) [3]float64 {
	h := n.perm[(i&255)+int(n.perm[j&255])]
	return gradients[int(h)%len(gradients)]
}

func (n *SimplexNoise) grad3(i, j, k int) [3]float64 {
	h := n.perm[(i&255)+int(n.perm[(j&255)+int(n.perm[k&255])])]
	return gradients[int(h)%len(gradients)]
}

// corner is the contribution of one simplex corner at offset d.
func corner(radius float64, g [3]float64, dx, dy, dz float64) float64 {
	t := radius - dx*dx - dy*dy - dz*dz
	if t < 0 {
		return 0
	}
	t *= t
	return t * t * (g[0]*dx + g[1]*dy + g[2]*dz)
}

func (n *SimplexNoise) Noise2D(x, y float64) float64 {
	s := (x + y) * skew2
	i, j := fastFloor(x+s), fastFloor(y+s)
	t := float64(i+j) * unskew2
	x0, y0 := x-(float64(i)-t), y-(float64(j)-t)

	mid := [2]int{0, 1}
	if x0 > y0 {
		mid = [2]int{1, 0}
	}
	corners := [3][2]int{{0, 0}, mid, {1, 1}}

	var sum float64
	for c, off := range corners {
		d := float64(c) * unskew2
		sum += corner(0.5, n.grad2(i+off[0], j+off[1]),
			x0-float64(off[0])+d, y0-float64(off[1])+d, 0)
	}
	return clampUnit(70 * sum)
}

func (n *SimplexNoise) Noise3D(x, y, z float64) float64 {
	s := (x + y + z) * skew3
	i, j, k := fastFloor(x+s), fastFloor(y+s), fastFloor(z+s)
	t := float64(i+j+k) * unskew3
	x0, y0, z0 := x-(float64(i)-t), y-(float64(j)-t), z-(float64(k)-t)

	second, third := simplexSteps(x0, y0, z0)
	corners := [4][3]int{{0, 0, 0}, second, third, {1, 1, 1}}

	var sum float64
	for c, off := range corners {
		d := float64(c) * unskew3
		sum += corner(0.6, n.grad3(i+off[0], j+off[1], k+off[2]),
			x0-float64(off[0])+d, y0-float64(off[1])+d, z0-float64(off[2])+d)
	}
	return clampUnit(32 * sum)
}

// simplexSteps returns the second and third corner of the tetrahedron that
// contains the point, walking the axes from largest to smallest offset.
func simplexSteps(x, y, z float64) (second, third [3]int) {
	switch {
	case x >= y && y >= z:
		return [3]int{1, 0, 0}, [3]int{1, 1, 0}
	case x >= y && x >= z:
		return [3]int{1, 0, 0}, [3]int{1, 0, 1}
	case x >= y:
		return [3]int{0, 0, 1}, [3]int{1, 0, 1}
	case y < z:
		return [3]int{0, 0, 1}, [3]int{0, 1, 1}
	case x < z:
		return [3]int{0, 1, 0}, [3]int{0, 1, 1}
	}
	return [3]int{0, 1, 0}, [3]int{1, 1, 0}
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}
