package sim

import (
	"errors"
	"fmt"
)

// Boundary errors of the simulation core.
var (
	// ErrDuplicateBodyID indicates an AddBody with an id already in use.
	ErrDuplicateBodyID = errors.New("sim: duplicate body id")

	// ErrCapacityExceeded indicates the massive-body or total-object limit
	// was reached.
	ErrCapacityExceeded = errors.New("sim: capacity exceeded")

	// ErrInvalidConfig indicates an out-of-range configuration value or a
	// step attempted on an empty body set.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrCheckpointVersionMismatch indicates a checkpoint written by an
	// incompatible format version.
	ErrCheckpointVersionMismatch = errors.New("sim: checkpoint version mismatch")

	// ErrCheckpointCorrupt indicates a truncated or inconsistent checkpoint.
	ErrCheckpointCorrupt = errors.New("sim: checkpoint corrupt")

	// ErrNumericalFailure indicates NaN or Inf detected after a step, or an
	// adaptive integrator exhausting its retries. The state is left as it
	// was before the failing step.
	ErrNumericalFailure = errors.New("sim: numerical failure")
)

// StepError wraps a failure with the tick it occurred on.
type StepError struct {
	Tick uint64
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4g s): %v", e.Tick, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
