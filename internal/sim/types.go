package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/physics"
)

const (
	// MaxSimulations is the number of simulations that can run side by side.
	MaxSimulations = 2

	DefaultDt          = 1.0
	DefaultTrailLength = 1000
	DefaultGraphLength = 600

	// DefaultVelocityFactor scales the edge seed: each body starts moving
	// towards the next one (1→2→3→1) at this fraction of their separation.
	DefaultVelocityFactor = 0.003
	// DefaultSpin adds no rigid rotation on top of the edge seed.
	DefaultSpin = 0.0

	// DefaultArena is the half-size of the bounded arena (a 1000x1000 box).
	DefaultArena = 500.0
)

// Config is the immutable description of one simulation.
type Config struct {
	Distance float64 `yaml:"distance" json:"distance"`
	Mass     float64 `yaml:"mass" json:"mass"`
	G        float64 `yaml:"g" json:"g"`
}

// Validate reports a *ConfigError for the first non-positive field.
func (c Config) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"distance", c.Distance},
		{"mass", c.Mass},
		{"gravitational constant", c.G},
	}
	for _, f := range fields {
		if !(f.val > 0) || math.IsInf(f.val, 0) {
			return &ConfigError{Field: f.name, Value: f.val}
		}
	}
	return nil
}

// Options are run-wide settings shared by every simulation of a run.
type Options struct {
	// VelocityFactor scales the seed velocity towards the next body.
	VelocityFactor float64
	// Spin adds a tangential seed; 1 is the rigid rotation of the
	// equilateral configuration.
	Spin float64
	// TrailLength caps the stored positions per body.
	TrailLength int
	// GraphLength caps the stored graph samples.
	GraphLength int
	// Arena, when positive, bounces bodies off walls at ±Arena.
	Arena float64
}

// DefaultOptions returns the edge seed with unbounded motion.
func DefaultOptions() Options {
	return Options{
		VelocityFactor: DefaultVelocityFactor,
		Spin:           DefaultSpin,
		TrailLength:    DefaultTrailLength,
		GraphLength:    DefaultGraphLength,
	}
}

func (o Options) normalized() Options {
	if o.TrailLength <= 0 {
		o.TrailLength = DefaultTrailLength
	}
	if o.GraphLength <= 0 {
		o.GraphLength = DefaultGraphLength
	}
	if o.Arena < 0 || math.IsNaN(o.Arena) {
		o.Arena = 0
	}
	return o
}

// Snapshot is a read-only copy of a simulation's state for rendering.
type Snapshot struct {
	Config     Config
	Ticks      int
	Positions  [physics.Count]mgl64.Vec2
	Velocities [physics.Count]mgl64.Vec2
	Radii      [physics.Count]float64
	// Trails holds each body's past positions, oldest first.
	Trails [physics.Count][]mgl64.Vec2
	// Graph holds the mean pairwise distance per step, oldest first.
	Graph     []float64
	Distances [physics.Count]float64
	Energy    float64
	// EnergyDrift is |E - E0| / |E0|.
	EnergyDrift float64
	Momentum    mgl64.Vec2
	Halted      bool
	Err         error
}
