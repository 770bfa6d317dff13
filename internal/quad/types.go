package quad

import (
	"context"
	"math"
)

// Sample is the vector value of the integrand at a single time point.
type Sample []float64

func (s Sample) Clone() Sample {
	c := make(Sample, len(s))
	copy(c, s)
	return c
}

func (s Sample) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm of the sample.
func (s Sample) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s Sample) Sub(other Sample) Sample {
	result := make(Sample, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s Sample) Scale(factor float64) Sample {
	result := make(Sample, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Evaluator produces integrand samples for a whole batch of time points.
// The returned batch must be positionally aligned with ts and have the
// same length. Evaluate must be pure: no hidden state, identical output
// for identical input. The engine never asks twice for the same time
// value within one Integrate call.
type Evaluator interface {
	Evaluate(ts []float64) ([]Sample, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ts []float64) ([]Sample, error)

func (f EvaluatorFunc) Evaluate(ts []float64) ([]Sample, error) { return f(ts) }

// ScalarFunc wraps a pointwise scalar function as a batch Evaluator.
func ScalarFunc(f func(t float64) float64) Evaluator {
	return EvaluatorFunc(func(ts []float64) ([]Sample, error) {
		ys := make([]Sample, len(ts))
		for i, t := range ts {
			ys[i] = Sample{f(t)}
		}
		return ys, nil
	})
}

// Estimate is a quadrature estimate over one grid at one degree: the
// total integral plus the per-interval contributions it decomposes into.
// Intervals has one entry per grid interval, so local error can be
// measured against a second estimate of a different degree.
type Estimate struct {
	Integral  Sample
	Intervals []Sample
}

// IntegralOutput is the immutable result of one Integrate call.
type IntegralOutput struct {
	// Integral is the converged higher-order estimate, offset by y0.
	Integral Sample
	// Times is the final grid, strictly increasing, bounds included.
	Times []float64
	// Samples holds one integrand sample per grid entry.
	Samples []Sample
	// Evals counts Evaluator invocations by point, Rounds the number of
	// refinement rounds taken.
	Evals  int
	Rounds int
	// Degenerate reports that coarsening collapsed the grid to the two
	// boundary points; the result is then a plain two-point estimate.
	Degenerate bool
}

// RoundStats describes one refinement round, for progress observers.
type RoundStats struct {
	Round    int
	Points   int
	Added    int
	Removed  int
	Flagged  int
	MaxRatio float64
	Integral Sample
}

// Integrator is the quadrature capability set. A serial one-point-at-a-time
// variant would be an alternative implementation of this interface.
type Integrator interface {
	// CalculateIntegral computes an estimate of the given polynomial
	// degree over an already-evaluated grid, offset by y0.
	CalculateIntegral(ts []float64, ys []Sample, y0 Sample, degree int) (*Estimate, error)
	// Integrate drives evaluation and refinement over [tInit, tFinal].
	// If grid is non-nil it is used as the initial point set verbatim.
	Integrate(ctx context.Context, ev Evaluator, y0 Sample, tInit, tFinal float64, grid []float64) (*IntegralOutput, error)
}
