package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerateState indicates the integration produced a NaN or Inf
// position or velocity.
var ErrDegenerateState = errors.New("physics: degenerate state (NaN or Inf detected)")

// StepError wraps ErrDegenerateState with the offending body.
type StepError struct {
	Body     int
	Position mgl64.Vec2
	Velocity mgl64.Vec2
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v: body %d pos=(%g, %g) vel=(%g, %g)",
		ErrDegenerateState, e.Body+1,
		e.Position.X(), e.Position.Y(), e.Velocity.X(), e.Velocity.Y())
}

func (e *StepError) Unwrap() error {
	return ErrDegenerateState
}
