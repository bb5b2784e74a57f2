package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation construction and stepping.
var (
	// ErrInvalidConfig indicates a non-positive or non-finite distance, mass
	// or gravitational constant.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrHalted is returned by Step once a simulation has reached a
	// degenerate state. Reset clears it.
	ErrHalted = errors.New("sim: simulation halted")

	// ErrTooManySimulations indicates more than MaxSimulations configs.
	ErrTooManySimulations = errors.New("sim: too many simulations")
)

// ConfigError wraps ErrInvalidConfig with the offending field.
type ConfigError struct {
	Field string
	Value float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s must be positive, got %g", ErrInvalidConfig, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
