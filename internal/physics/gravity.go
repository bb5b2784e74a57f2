package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Softening is the Plummer softening length in world units.
const Softening = 5.0

// Accelerations returns the softened gravitational acceleration of each body.
func Accelerations(bs Bodies, g float64) [Count]mgl64.Vec2 {
	var acc [Count]mgl64.Vec2
	eps2 := Softening * Softening

	for i := 0; i < Count; i++ {
		for j := i + 1; j < Count; j++ {
			r := bs[j].Pos.Sub(bs[i].Pos)
			r2 := r.LenSqr() + eps2
			r3Inv := 1.0 / (r2 * math.Sqrt(r2))

			// |F| = G*mi*mj/r2, along r/sqrt(r2)
			f := r.Mul(g * bs[i].Mass * bs[j].Mass * r3Inv)
			acc[i] = acc[i].Add(f.Mul(1 / bs[i].Mass))
			acc[j] = acc[j].Sub(f.Mul(1 / bs[j].Mass))
		}
	}

	return acc
}

// Step advances the bodies by dt with semi-implicit Euler. On a non-finite
// result it returns the input unchanged and a *StepError.
func Step(bs Bodies, g, dt float64) (Bodies, error) {
	acc := Accelerations(bs, g)

	next := bs
	for i := range next {
		next[i].Vel = next[i].Vel.Add(acc[i].Mul(dt))
		next[i].Pos = next[i].Pos.Add(next[i].Vel.Mul(dt))
	}

	for i, b := range next {
		if !b.IsFinite() {
			return bs, &StepError{Body: i, Position: b.Pos, Velocity: b.Vel}
		}
	}

	return next, nil
}

// Energy returns kinetic plus softened potential energy.
func Energy(bs Bodies, g float64) float64 {
	ke := 0.0
	pe := 0.0
	eps2 := Softening * Softening

	for i := 0; i < Count; i++ {
		ke += 0.5 * bs[i].Mass * bs[i].Vel.LenSqr()

		for j := i + 1; j < Count; j++ {
			r := math.Sqrt(bs[j].Pos.Sub(bs[i].Pos).LenSqr() + eps2)
			pe -= g * bs[i].Mass * bs[j].Mass / r
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum.
func Momentum(bs Bodies) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, b := range bs {
		p = p.Add(b.Vel.Mul(b.Mass))
	}
	return p
}

// AngularMomentum returns the z component of total angular momentum about
// the origin.
func AngularMomentum(bs Bodies) float64 {
	L := 0.0
	for _, b := range bs {
		L += b.Mass * (b.Pos.X()*b.Vel.Y() - b.Pos.Y()*b.Vel.X())
	}
	return L
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(bs Bodies) mgl64.Vec2 {
	var c mgl64.Vec2
	total := 0.0
	for _, b := range bs {
		c = c.Add(b.Pos.Mul(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return c
	}
	return c.Mul(1 / total)
}
