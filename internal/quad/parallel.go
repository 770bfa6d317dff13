package quad

import (
	"context"
	"fmt"
	"sync"
)

const (
	// DefaultInitPoints is the uniform seed resolution used when neither
	// an explicit grid nor a warm-start grid is available.
	DefaultInitPoints = 101
	// DefaultMaxRounds bounds the refinement loop.
	DefaultMaxRounds = 100
)

// Options configures a ParallelAdaptive integrator.
type Options struct {
	// P is the base quadrature degree; error is estimated against the
	// embedded degree P+1 rule over the same samples.
	P    int
	Atol float64
	Rtol float64

	// TInit and TFinal are the default integration bounds, used when an
	// Integrate call does not override them.
	TInit  float64
	TFinal float64

	// InitPoints is the uniform seed size (default DefaultInitPoints).
	InitPoints int
	// MinSpacing is the sample-space distance below which adjacent grid
	// points are collapsed. Zero disables coarsening.
	MinSpacing float64
	// MaxRounds bounds the refinement loop (default DefaultMaxRounds).
	MaxRounds int
	// Norm reduces per-interval error vectors (default RMSNorm).
	Norm Norm
	// OnRound, if set, observes each completed refinement round.
	OnRound func(RoundStats)
}

// ParallelAdaptive computes definite integrals of batch-evaluated
// vector integrands with embedded-pair error control. Each refinement
// round evaluates all scheduled candidate points in a single Evaluator
// call. The final grid of a call warm-starts the next call over an
// overlapping range.
type ParallelAdaptive struct {
	opts Options

	mu    sync.Mutex
	prevT []float64
}

// NewParallelAdaptive validates opts and returns an integrator.
func NewParallelAdaptive(opts Options) (*ParallelAdaptive, error) {
	if opts.P <= 0 {
		return nil, &ConfigError{Field: "p", Msg: fmt.Sprintf("quadrature degree must be positive, got %d", opts.P)}
	}
	if opts.P+1 > maxDegree {
		return nil, &ConfigError{Field: "p", Msg: fmt.Sprintf("quadrature degree must be below %d, got %d", maxDegree, opts.P)}
	}
	if opts.Atol < 0 {
		return nil, &ConfigError{Field: "atol", Msg: fmt.Sprintf("must be non-negative, got %g", opts.Atol)}
	}
	if opts.Rtol < 0 {
		return nil, &ConfigError{Field: "rtol", Msg: fmt.Sprintf("must be non-negative, got %g", opts.Rtol)}
	}
	if opts.Atol == 0 && opts.Rtol == 0 {
		return nil, &ConfigError{Field: "atol", Msg: "atol and rtol cannot both be zero"}
	}
	if opts.TFinal != 0 || opts.TInit != 0 {
		if opts.TFinal <= opts.TInit {
			return nil, &ConfigError{Field: "t_final", Msg: fmt.Sprintf("bounds inverted: [%g, %g]", opts.TInit, opts.TFinal)}
		}
	}
	if opts.MinSpacing < 0 {
		return nil, &ConfigError{Field: "min_spacing", Msg: fmt.Sprintf("must be non-negative, got %g", opts.MinSpacing)}
	}
	if opts.InitPoints == 0 {
		opts.InitPoints = DefaultInitPoints
	}
	if opts.InitPoints < 2 {
		return nil, &ConfigError{Field: "init_points", Msg: fmt.Sprintf("need at least 2 seed points, got %d", opts.InitPoints)}
	}
	if opts.MaxRounds == 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.MaxRounds < 0 {
		return nil, &ConfigError{Field: "max_rounds", Msg: fmt.Sprintf("must be positive, got %d", opts.MaxRounds)}
	}
	if opts.Norm == nil {
		opts.Norm = RMSNorm
	}
	return &ParallelAdaptive{opts: opts}, nil
}

// CalculateIntegral computes the degree-d estimate over an evaluated
// grid, offset by y0. The grid must be strictly increasing with one
// sample per point.
func (p *ParallelAdaptive) CalculateIntegral(ts []float64, ys []Sample, y0 Sample, degree int) (*Estimate, error) {
	if degree < 1 {
		return nil, &ConfigError{Field: "degree", Msg: fmt.Sprintf("must be positive, got %d", degree)}
	}
	if len(ts) < 2 {
		return nil, &ConfigError{Field: "grid", Msg: fmt.Sprintf("need at least 2 points, got %d", len(ts))}
	}
	if len(ts) != len(ys) {
		return nil, ErrInvalidSample
	}
	est := compositeEstimate(ts, ys, degree)
	if y0 != nil {
		if len(y0) != len(est.Integral) {
			return nil, &ConfigError{Field: "y0", Msg: fmt.Sprintf("dimension %d does not match sample dimension %d", len(y0), len(est.Integral))}
		}
		for c := range est.Integral {
			est.Integral[c] += y0[c]
		}
	}
	return est, nil
}

// Integrate computes the integral of ev over [tInit, tFinal], refining
// and coarsening the grid until every interval's error ratio falls to 1
// or below. grid, if non-nil, seeds the point set verbatim; otherwise a
// previous call's grid is reused where it overlaps the bounds, and a
// uniform seed is used on the first call.
//
// Only one Integrate call may be active per instance; overlapping calls
// fail with ErrBusy. ctx is checked between rounds, never mid-batch.
func (p *ParallelAdaptive) Integrate(ctx context.Context, ev Evaluator, y0 Sample, tInit, tFinal float64, grid []float64) (*IntegralOutput, error) {
	if tFinal <= tInit {
		return nil, &ConfigError{Field: "t_final", Msg: fmt.Sprintf("bounds inverted: [%g, %g]", tInit, tFinal)}
	}
	if ev == nil {
		return nil, &ConfigError{Field: "evaluator", Msg: "nil"}
	}
	if !p.mu.TryLock() {
		return nil, ErrBusy
	}
	defer p.mu.Unlock()

	cand, err := p.seed(tInit, tFinal, grid)
	if err != nil {
		return nil, err
	}

	var (
		ts         []float64
		ys         []Sample
		evals      int
		rounds     int
		degenerate bool
	)
	for {
		if rounds >= p.opts.MaxRounds {
			return nil, &ConvergenceError{Rounds: rounds, Points: len(ts), MaxRatio: p.lastMaxRatio(ts, ys)}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rounds++

		newY, err := p.evaluate(ev, cand)
		if err != nil {
			return nil, err
		}
		evals += len(cand)

		ts, ys, err = mergeEvals(ts, ys, cand, newY)
		if err != nil {
			return nil, err
		}

		estP, err := p.CalculateIntegral(ts, ys, nil, p.opts.P)
		if err != nil {
			return nil, err
		}
		estP1, err := p.CalculateIntegral(ts, ys, nil, p.opts.P+1)
		if err != nil {
			return nil, err
		}
		ratios := errorRatios(estP.Intervals, estP1.Intervals, p.opts.Atol, p.opts.Rtol, p.opts.Norm)

		next := scheduleMidpoints(ts, ratios)
		flagged := len(next)

		before := len(ts)
		var collapsed bool
		ts, ys, collapsed = coarsen(ts, ys, p.opts.MinSpacing)
		removed := before - len(ts)

		if p.opts.OnRound != nil {
			p.opts.OnRound(RoundStats{
				Round:    rounds,
				Points:   len(ts),
				Added:    len(cand),
				Removed:  removed,
				Flagged:  flagged,
				MaxRatio: maxRatio(ratios),
				Integral: estP1.Integral.Clone(),
			})
		}

		if collapsed {
			// Everything interior was geometrically redundant: the
			// spacing threshold is too coarse for this data. Terminal,
			// reported on the output rather than as an error.
			degenerate = true
			break
		}
		next = filterKnown(next, ts)
		if len(next) == 0 {
			break
		}
		cand = next
	}

	final, err := p.CalculateIntegral(ts, ys, y0, p.opts.P+1)
	if err != nil {
		return nil, err
	}
	p.prevT = append([]float64(nil), ts...)

	return &IntegralOutput{
		Integral:   final.Integral,
		Times:      ts,
		Samples:    ys,
		Evals:      evals,
		Rounds:     rounds,
		Degenerate: degenerate,
	}, nil
}

// IntegrateDefaults integrates over the bounds given at construction.
func (p *ParallelAdaptive) IntegrateDefaults(ctx context.Context, ev Evaluator, y0 Sample) (*IntegralOutput, error) {
	return p.Integrate(ctx, ev, y0, p.opts.TInit, p.opts.TFinal, nil)
}

// seed picks the starting candidate set for one call: the explicit grid
// when given, else the warm-start grid restricted to the bounds, else a
// uniform grid.
func (p *ParallelAdaptive) seed(tInit, tFinal float64, grid []float64) ([]float64, error) {
	if grid != nil {
		if len(grid) < 2 {
			return nil, &ConfigError{Field: "grid", Msg: fmt.Sprintf("explicit grid needs at least 2 points, got %d", len(grid))}
		}
		for i := 1; i < len(grid); i++ {
			if grid[i] <= grid[i-1] {
				return nil, &ConfigError{Field: "grid", Msg: "explicit grid must be strictly increasing"}
			}
		}
		if grid[0] != tInit || grid[len(grid)-1] != tFinal {
			return nil, &ConfigError{Field: "grid", Msg: "explicit grid must span [t_init, t_final]"}
		}
		return append([]float64(nil), grid...), nil
	}
	if p.prevT != nil {
		if ts := filterRange(p.prevT, tInit, tFinal); len(ts) > 2 {
			return ts, nil
		}
	}
	return uniformGrid(tInit, tFinal, p.opts.InitPoints), nil
}

// evaluate runs one batch through the Evaluator and checks alignment.
func (p *ParallelAdaptive) evaluate(ev Evaluator, ts []float64) ([]Sample, error) {
	if len(ts) == 0 {
		return nil, ErrEmptyBatch
	}
	ys, err := ev.Evaluate(ts)
	if err != nil {
		return nil, fmt.Errorf("quad: evaluator: %w", err)
	}
	if len(ys) != len(ts) {
		return nil, fmt.Errorf("%w: got %d samples for %d points", ErrInvalidSample, len(ys), len(ts))
	}
	dim := len(ys[0])
	for _, y := range ys {
		if len(y) != dim || !y.IsValid() {
			return nil, ErrInvalidSample
		}
	}
	return ys, nil
}

// lastMaxRatio recomputes the worst ratio for convergence-failure
// reporting; best effort, 0 when the grid is unusable.
func (p *ParallelAdaptive) lastMaxRatio(ts []float64, ys []Sample) float64 {
	estP, err := p.CalculateIntegral(ts, ys, nil, p.opts.P)
	if err != nil {
		return 0
	}
	estP1, err := p.CalculateIntegral(ts, ys, nil, p.opts.P+1)
	if err != nil {
		return 0
	}
	return maxRatio(errorRatios(estP.Intervals, estP1.Intervals, p.opts.Atol, p.opts.Rtol, p.opts.Norm))
}

// scheduleMidpoints returns one candidate point, the midpoint, for every
// interval whose error ratio exceeds 1. Midpoints that fall onto an
// endpoint through float underflow are skipped.
func scheduleMidpoints(ts []float64, ratios []float64) []float64 {
	var next []float64
	for i, r := range ratios {
		if r <= 1 {
			continue
		}
		mid := ts[i] + (ts[i+1]-ts[i])/2
		if mid > ts[i] && mid < ts[i+1] {
			next = append(next, mid)
		}
	}
	return next
}
