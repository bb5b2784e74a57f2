// Package storage records headless runs to disk.
//
// Each run is a directory under the store's base directory holding
//
//	metadata.json   run settings, per-simulation summary and metrics
//	trajectory.csv  one row per simulation per recorded tick:
//	                sim,tick,x1,y1,vx1,vy1,x2,...,vy3
//
// A [Recorder] subscribes to simulations as a [sim.Observer] and collects
// frames while they step; [Store.Save] writes them out.
package storage
