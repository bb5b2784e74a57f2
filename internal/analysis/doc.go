// Package analysis measures how two simulations drift apart.
//
//   - [Divergence]: mean per-body positional separation of two snapshots
//   - [DivergenceSeries]: divergence history recovered from two trails
//   - [GrowthRate]: exponential growth rate of a divergence series
//   - [Tracker]: rolling divergence history for a running pair
//
// # Sensitivity
//
// Two simulations that differ only slightly in their configuration separate
// roughly exponentially when the motion is chaotic. A positive growth rate
// is the finite-time analogue of the largest Lyapunov exponent:
//
//	t := analysis.NewTracker(600)
//	for range ticks {
//	    group.Step(dt)
//	    snaps := group.Snapshots()
//	    t.Observe(snaps[0], snaps[1])
//	}
//	if t.Rate(dt) > 0 {
//	    // trajectories are separating
//	}
package analysis
