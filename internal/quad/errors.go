package quad

import (
	"errors"
	"fmt"
)

// Domain errors for quadrature operations.
var (
	// ErrEmptyBatch indicates a zero-length candidate batch was passed
	// where new points were expected. Programmer error, never retried.
	ErrEmptyBatch = errors.New("quad: empty candidate batch")

	// ErrNotConverged indicates the refinement loop exhausted its round
	// budget without satisfying the tolerances.
	ErrNotConverged = errors.New("quad: refinement did not converge")

	// ErrBusy indicates an Integrate call overlapped another on the same
	// instance; the warm-start grid is single-writer.
	ErrBusy = errors.New("quad: integrate already in progress")

	// ErrInvalidSample indicates the Evaluator returned NaN/Inf or a
	// batch misaligned with its input.
	ErrInvalidSample = errors.New("quad: invalid evaluator output")
)

// ConfigError reports an invalid construction or call parameter.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("quad: invalid %s: %s", e.Field, e.Msg)
}

// ConvergenceError carries the state of a refinement loop that ran out
// of rounds. It unwraps to ErrNotConverged.
type ConvergenceError struct {
	Rounds   int
	Points   int
	MaxRatio float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("quad: no convergence after %d rounds (%d points, worst error ratio %.3g)",
		e.Rounds, e.Points, e.MaxRatio)
}

func (e *ConvergenceError) Unwrap() error { return ErrNotConverged }
