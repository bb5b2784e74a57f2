// Package physics provides the gravitational model for three point masses.
//
// It provides:
//
//   - [Body]: point mass with position, velocity and mass
//   - [Step]: advances three bodies by one semi-implicit Euler step
//   - [Accelerations]: softened pairwise gravitational accelerations
//   - [Energy], [Momentum], [AngularMomentum]: conserved quantities
//
// # Integration
//
// Step computes every acceleration from the positions at the start of the
// step, then updates velocity (v += a*dt) and position with the new velocity
// (p += v*dt). Forces are accumulated once per pair and applied with opposite
// signs, so total momentum only changes by rounding error.
//
// # Softening
//
// Separations are softened with a fixed Plummer length [Softening]:
//
//	F = G*mi*mj / (d² + ε²), directed along r / sqrt(d² + ε²)
//
// Coincident bodies therefore exert zero force on each other instead of
// producing NaN or Inf.
//
// A step that still ends in a non-finite state returns [ErrDegenerateState]
// together with the unmodified input bodies:
//
//	next, err := physics.Step(bodies, g, dt)
//	if errors.Is(err, physics.ErrDegenerateState) {
//	    // keep drawing bodies, stop stepping
//	}
package physics
