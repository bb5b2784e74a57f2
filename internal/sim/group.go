package sim

import (
	"errors"
	"fmt"
)

// Group is the ordered set of simulations driven together by a run.
type Group struct {
	sims []*Simulation
}

// NewGroup builds one simulation per config. Every config is validated
// independently; all failures are returned joined and no Group is produced.
func NewGroup(cfgs []Config, opts Options) (*Group, error) {
	if len(cfgs) > MaxSimulations {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManySimulations, len(cfgs), MaxSimulations)
	}

	g := &Group{sims: make([]*Simulation, 0, len(cfgs))}
	var errs []error
	for i, cfg := range cfgs {
		s, err := New(cfg, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("simulation%d: %w", i+1, err))
			continue
		}
		g.sims = append(g.sims, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func (g *Group) Len() int                   { return len(g.sims) }
func (g *Group) At(i int) *Simulation       { return g.sims[i] }
func (g *Group) Simulations() []*Simulation { return g.sims }

// Step advances every running simulation by dt. Halted simulations are
// skipped. It returns the degenerate-state errors raised during this call.
func (g *Group) Step(dt float64) error {
	var errs []error
	for i, s := range g.sims {
		if s.Halted() {
			continue
		}
		if err := s.Step(dt); err != nil {
			errs = append(errs, fmt.Errorf("simulation%d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

func (g *Group) Reset() {
	for _, s := range g.sims {
		s.Reset()
	}
}

// Snapshots returns one snapshot per simulation, in order.
func (g *Group) Snapshots() []Snapshot {
	out := make([]Snapshot, len(g.sims))
	for i, s := range g.sims {
		out[i] = s.State()
	}
	return out
}
