package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a NaN or infinite position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidStep indicates a non-positive time step, step count or mass.
	ErrInvalidStep = errors.New("dynamo: invalid step parameters")

	// ErrExtrapolation indicates the force was evaluated outside the fitted
	// domain. It is reported, never returned by the driver.
	ErrExtrapolation = errors.New("dynamo: trajectory left the fitted domain")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f, r=%g, v=%g): %v", e.Step, e.Time, e.State.R, e.State.V, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
