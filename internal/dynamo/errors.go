package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDegenerateConfiguration indicates two bodies share a position, leaving the
	// force direction between them undefined.
	ErrDegenerateConfiguration = errors.New("dynamo: degenerate configuration (bodies share a position)")

	// ErrInvalidMass indicates a body mass that is not strictly positive.
	ErrInvalidMass = errors.New("dynamo: body mass must be positive")

	// ErrNonFiniteState indicates a position or velocity component that is NaN
	// or infinite.
	ErrNonFiniteState = errors.New("dynamo: body position and velocity must be finite")

	// ErrInvalidStep indicates a time step that is zero, NaN or infinite.
	ErrInvalidStep = errors.New("dynamo: time step must be finite and non-zero")

	// ErrNoBodies indicates a run was requested with an empty body list.
	ErrNoBodies = errors.New("dynamo: no bodies to simulate")

	// ErrInvalidFrameCount indicates a negative frame count.
	ErrInvalidFrameCount = errors.New("dynamo: frame count must be non-negative")
)

// PairError identifies the two bodies (0-based) involved in a pairwise failure.
type PairError struct {
	I, J    int
	Wrapped error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("bodies %d and %d: %s", e.I+1, e.J+1, e.Wrapped.Error())
}

func (e *PairError) Unwrap() error {
	return e.Wrapped
}

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Wrapped.Error())
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
