package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/threebody/internal/input"
	"github.com/san-kum/threebody/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStepsPerTick = 1
	DefaultFPS          = 60
	DefaultTheme        = "classic"
)

// Config is a complete run description as read from a yaml file.
type Config struct {
	Dt             float64                  `yaml:"dt"`
	StepsPerTick   int                      `yaml:"steps_per_tick"`
	FPS            int                      `yaml:"fps"`
	TrailLength    int                      `yaml:"trail_length"`
	GraphLength    int                      `yaml:"graph_length"`
	VelocityFactor float64                  `yaml:"velocity_factor"`
	Spin           float64                  `yaml:"spin"`
	Bounded        bool                     `yaml:"bounded"`
	Theme          string                   `yaml:"theme"`
	View           input.VisualizationState `yaml:"view"`
	Simulations    []sim.Config             `yaml:"simulations"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:             sim.DefaultDt,
		StepsPerTick:   DefaultStepsPerTick,
		FPS:            DefaultFPS,
		TrailLength:    sim.DefaultTrailLength,
		GraphLength:    sim.DefaultGraphLength,
		VelocityFactor: sim.DefaultVelocityFactor,
		Spin:           sim.DefaultSpin,
		Theme:          DefaultTheme,
		View:           input.DefaultVisualizationState(),
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over a copy of base. Fields absent from the
// file keep base's values; a simulations list replaces base's entirely.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Simulations = append([]sim.Config(nil), c.Simulations...)
	return &out
}

// Validate checks run-wide settings and every simulation. Simulation
// errors are prefixed with their 1-based position and joined.
func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return &sim.ConfigError{Field: "dt", Value: c.Dt}
	}
	if c.StepsPerTick < 1 {
		return &sim.ConfigError{Field: "steps_per_tick", Value: float64(c.StepsPerTick)}
	}
	if c.FPS < 1 {
		return &sim.ConfigError{Field: "fps", Value: float64(c.FPS)}
	}
	if math.IsNaN(c.VelocityFactor) || math.IsInf(c.VelocityFactor, 0) {
		return fmt.Errorf("%w: velocity_factor must be finite, got %g", sim.ErrInvalidConfig, c.VelocityFactor)
	}
	if math.IsNaN(c.Spin) || math.IsInf(c.Spin, 0) {
		return fmt.Errorf("%w: spin must be finite, got %g", sim.ErrInvalidConfig, c.Spin)
	}
	if len(c.Simulations) > sim.MaxSimulations {
		return fmt.Errorf("%w: got %d, max %d", sim.ErrTooManySimulations, len(c.Simulations), sim.MaxSimulations)
	}

	var errs []error
	for i, s := range c.Simulations {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("simulation%d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

// SimOptions returns the per-simulation options of this run.
func (c *Config) SimOptions() sim.Options {
	opts := sim.Options{
		VelocityFactor: c.VelocityFactor,
		Spin:           c.Spin,
		TrailLength:    c.TrailLength,
		GraphLength:    c.GraphLength,
	}
	if c.Bounded {
		opts.Arena = sim.DefaultArena
	}
	return opts
}
