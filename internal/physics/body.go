package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Count is the number of bodies in every system.
const Count = 3

const (
	density   = 1.0
	minRadius = 2.0
	maxRadius = 100.0
)

// Body is a point mass. Mass is fixed at creation.
type Body struct {
	Pos  mgl64.Vec2
	Vel  mgl64.Vec2
	Mass float64
}

// Bodies is the fixed-size set advanced by Step.
type Bodies [Count]Body

// Radius is the drawing radius derived from mass and a unit density,
// clamped to [2, 100].
func (b Body) Radius() float64 {
	r := (3.0 / 4.0 * math.Pi) * math.Cbrt(b.Mass/density)
	return math.Max(minRadius, math.Min(maxRadius, r))
}

// IsFinite reports whether position and velocity are free of NaN and Inf.
func (b Body) IsFinite() bool {
	for _, v := range [4]float64{b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Positions returns the three positions in body order.
func (bs Bodies) Positions() [Count]mgl64.Vec2 {
	var p [Count]mgl64.Vec2
	for i := range bs {
		p[i] = bs[i].Pos
	}
	return p
}

// Velocities returns the three velocities in body order.
func (bs Bodies) Velocities() [Count]mgl64.Vec2 {
	var v [Count]mgl64.Vec2
	for i := range bs {
		v[i] = bs[i].Vel
	}
	return v
}

// Distances returns the pairwise separations d12, d13, d23.
func (bs Bodies) Distances() [Count]float64 {
	return [Count]float64{
		bs[1].Pos.Sub(bs[0].Pos).Len(),
		bs[2].Pos.Sub(bs[0].Pos).Len(),
		bs[2].Pos.Sub(bs[1].Pos).Len(),
	}
}
