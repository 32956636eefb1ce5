package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Fixed is an observer that never moves.
type Fixed mgl32.Vec3

func (f Fixed) Position(int) mgl32.Vec3 { return mgl32.Vec3(f) }

// Walk moves from Start by Step every frame.
type Walk struct {
	Start mgl32.Vec3
	Step  mgl32.Vec3
}

func (w Walk) Position(frame int) mgl32.Vec3 {
	return w.Start.Add(w.Step.Mul(float32(frame)))
}

// Orbit circles Center at Radius, completing a lap every Period frames.
type Orbit struct {
	Center mgl32.Vec3
	Radius float32
	Period int
}

func (o Orbit) Position(frame int) mgl32.Vec3 {
	if o.Period <= 0 {
		return o.Center
	}
	angle := 2 * math.Pi * float32(frame%o.Period) / float32(o.Period)
	rot := mgl32.Rotate3DY(angle)
	return o.Center.Add(rot.Mul3x1(mgl32.Vec3{o.Radius, 0, 0}))
}
