// Package viz renders three-body simulations in the terminal.
//
//   - [Renderer]: composes a frame from simulation snapshots and the
//     visualization toggles
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - Theme selection with 3 built-in colour schemes
//
// # Frame Layout
//
// The left side is the canvas: world coordinates in [-500, 500] on both
// axes, bodies as filled discs, trails as polylines whose older half is
// faded, and velocity vectors scaled by [VectorScale]. A second simulation
// is overlaid in translucent colours. The right side holds per-simulation
// stats, the divergence between two simulations and, when enabled, an
// asciigraph plot of mean pairwise distance.
package viz
