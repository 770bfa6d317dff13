// Package quad implements a parallel adaptive-stepsize quadrature engine
// for vector-valued integrands sampled along a one-dimensional time axis.
//
// Unlike classical adaptive quadrature, which inserts one point at a time,
// the engine schedules whole batches of candidate points per refinement
// round and hands them to the [Evaluator] in a single call, so the
// integrand is free to process the batch with any internal parallelism.
//
//   - [Sample]: vector value of the integrand at one time point
//   - [Evaluator]: batch integrand f(ts) -> samples
//   - [Integrator]: quadrature capability set
//   - [ParallelAdaptive]: the concrete batched refine/coarsen integrator
//
// # Example
//
//	pa, _ := quad.NewParallelAdaptive(quad.Options{P: 2, Atol: 1e-8, Rtol: 1e-8})
//	out, err := pa.Integrate(ctx, ev, nil, 0, 1, nil)
//
// # Thread Safety
//
// A ParallelAdaptive instance owns its warm-start grid and permits one
// Integrate call at a time; overlapping calls are rejected with [ErrBusy]
// rather than interleaved.
package quad
