package sim

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/physics"
)

// Observer is notified after every successful step.
type Observer interface {
	OnStep(tick int, bodies physics.Bodies)
}

// Simulation owns three bodies, their trails and the graph history.
// It is not safe for concurrent use.
type Simulation struct {
	cfg       Config
	opts      Options
	bodies    physics.Bodies
	trails    [physics.Count]*Ring[mgl64.Vec2]
	graph     *Ring[float64]
	ticks     int
	e0        float64
	err       error
	observers []Observer
}

// New validates cfg and places the bodies. A *ConfigError is returned for
// invalid input and no Simulation is produced.
func New(cfg Config, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts = opts.normalized()
	s := &Simulation{
		cfg:   cfg,
		opts:  opts,
		graph: NewRing[float64](opts.GraphLength),
	}
	for i := range s.trails {
		s.trails[i] = NewRing[mgl64.Vec2](opts.TrailLength)
	}
	s.Reset()
	return s, nil
}

// InitialBodies places three bodies of cfg.Mass on an equilateral triangle
// of side cfg.Distance centred on the origin. Each body moves towards the
// next one (1→2→3→1) at opts.VelocityFactor times their separation, plus
// opts.Spin times the rigid rotation speed of the triangle.
func InitialBodies(cfg Config, opts Options) physics.Bodies {
	d := cfg.Distance
	h := math.Sqrt(3) / 2 * d
	pos := [physics.Count]mgl64.Vec2{
		{-d / 2, h / 3},
		{d / 2, h / 3},
		{0, -2 * h / 3},
	}
	omega := opts.Spin * math.Sqrt(3*cfg.G*cfg.Mass/(d*d*d))

	var bs physics.Bodies
	for i, p := range pos {
		next := pos[(i+1)%physics.Count]
		edge := next.Sub(p).Mul(opts.VelocityFactor)
		bs[i] = physics.Body{
			Pos:  p,
			Vel:  edge.Add(mgl64.Vec2{-p.Y() * omega, p.X() * omega}),
			Mass: cfg.Mass,
		}
	}
	return bs
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Config() Config   { return s.cfg }
func (s *Simulation) Options() Options { return s.opts }
func (s *Simulation) Ticks() int       { return s.ticks }
func (s *Simulation) Halted() bool     { return s.err != nil }

// Err returns the degenerate-state error that halted the simulation.
func (s *Simulation) Err() error { return s.err }

// Bodies returns a copy of the current bodies.
func (s *Simulation) Bodies() physics.Bodies { return s.bodies }

// Step advances the simulation by dt. A degenerate result halts the
// simulation and keeps the last valid state; later calls return ErrHalted
// until Reset.
func (s *Simulation) Step(dt float64) error {
	if s.err != nil {
		return ErrHalted
	}

	next, err := physics.Step(s.bodies, s.cfg.G, dt)
	if err != nil {
		s.err = err
		return err
	}
	if s.opts.Arena > 0 {
		physics.Bounce(&next, s.opts.Arena)
	}

	s.bodies = next
	s.ticks++
	s.record()

	for _, o := range s.observers {
		o.OnStep(s.ticks, s.bodies)
	}
	return nil
}

// Reset rebuilds the bodies from its config and clears history.
func (s *Simulation) Reset() {
	s.bodies = InitialBodies(s.cfg, s.opts)
	s.ticks = 0
	s.err = nil
	s.e0 = physics.Energy(s.bodies, s.cfg.G)
	for _, t := range s.trails {
		t.Clear()
	}
	s.graph.Clear()
	s.record()
}

func (s *Simulation) record() {
	for i, b := range s.bodies {
		s.trails[i].Push(b.Pos)
	}
	s.graph.Push(meanDistance(s.bodies.Distances()))
}

func meanDistance(d [physics.Count]float64) float64 {
	return (d[0] + d[1] + d[2]) / 3
}

// State returns a snapshot that stays valid after further steps.
func (s *Simulation) State() Snapshot {
	snap := Snapshot{
		Config:     s.cfg,
		Ticks:      s.ticks,
		Positions:  s.bodies.Positions(),
		Velocities: s.bodies.Velocities(),
		Graph:      s.graph.Slice(),
		Distances:  s.bodies.Distances(),
		Energy:     physics.Energy(s.bodies, s.cfg.G),
		Momentum:   physics.Momentum(s.bodies),
		Halted:     s.err != nil,
		Err:        s.err,
	}
	for i, b := range s.bodies {
		snap.Radii[i] = b.Radius()
		snap.Trails[i] = s.trails[i].Slice()
	}
	if s.e0 != 0 {
		snap.EnergyDrift = math.Abs(snap.Energy-s.e0) / math.Abs(s.e0)
	}
	return snap
}

// IsDegenerate reports whether err came from a degenerate integration step.
func IsDegenerate(err error) bool {
	return errors.Is(err, physics.ErrDegenerateState)
}
