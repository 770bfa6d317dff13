package quad

import "math"

// Composite Newton-Cotes quadrature on an irregular grid. The n-1 grid
// intervals are partitioned into windows of deg consecutive intervals;
// a short trailing window is shifted backward over the last deg+1 nodes
// so the full degree is kept everywhere (grids shorter than deg+1 nodes
// drop to the degree they can support). Within a window the samples
// determine an interpolating polynomial; integrating that polynomial
// over each sub-interval yields per-interval weights, so the total
// estimate decomposes exactly into per-interval contributions. Degree 1
// reduces to the trapezoid rule, degree 2 to composite Simpson on
// irregularly spaced data.

// maxDegree caps the window size; Newton-Cotes weights of higher degree
// are numerically untrustworthy on skewed grids.
const maxDegree = 8

// intervalWeights computes w such that sum_k w[k]*f(x[k]) equals the
// integral over [a, b] of the polynomial interpolating f on the nodes x.
// The weights solve the moment system sum_k w[k]*x[k]^m = (b^{m+1} -
// a^{m+1})/(m+1) for m = 0..len(x)-1. Nodes are shifted to the window
// origin before solving to keep the Vandermonde system well scaled.
func intervalWeights(x []float64, a, b float64) []float64 {
	d := len(x)
	origin := x[0]
	as, bs := a-origin, b-origin

	m := make([][]float64, d)
	rhs := make([]float64, d)
	pa, pb := as, bs
	for row := 0; row < d; row++ {
		m[row] = make([]float64, d)
		for col := 0; col < d; col++ {
			m[row][col] = math.Pow(x[col]-origin, float64(row))
		}
		rhs[row] = (pb - pa) / float64(row+1)
		pa *= as
		pb *= bs
	}
	w, ok := solveDense(m, rhs)
	if !ok {
		// Singular only with coincident nodes, which a strictly
		// increasing grid rules out.
		w = make([]float64, d)
	}
	return w
}

// solveDense solves the square system m*x = rhs in place with Gaussian
// elimination and partial pivoting. Systems here are tiny (<= maxDegree+1).
func solveDense(m [][]float64, rhs []float64) ([]float64, bool) {
	n := len(rhs)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if m[pivot][col] == 0 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

		inv := 1.0 / m[col][col]
		for row := col + 1; row < n; row++ {
			f := m[row][col] * inv
			if f == 0 {
				continue
			}
			for k := col; k < n; k++ {
				m[row][k] -= f * m[col][k]
			}
			rhs[row] -= f * rhs[col]
		}
	}
	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := rhs[row]
		for k := row + 1; k < n; k++ {
			sum -= m[row][k] * x[k]
		}
		x[row] = sum / m[row][row]
	}
	return x, true
}

// compositeEstimate integrates the sampled integrand over the whole grid
// at the given polynomial degree, returning the total and one
// contribution per grid interval.
func compositeEstimate(ts []float64, ys []Sample, degree int) *Estimate {
	n := len(ts)
	dim := len(ys[0])
	total := make(Sample, dim)
	intervals := make([]Sample, n-1)

	for start := 0; start < n-1; {
		d := degree
		winStart := start
		cover := d
		if rem := n - 1 - start; rem < d {
			cover = rem
			if n-1 >= d {
				winStart = n - 1 - d
			} else {
				d = rem
			}
		}
		nodes := ts[winStart : winStart+d+1]
		for j := 0; j < cover; j++ {
			iv := start + j
			w := intervalWeights(nodes, ts[iv], ts[iv+1])
			contrib := make(Sample, dim)
			for k, wk := range w {
				if wk == 0 {
					continue
				}
				yk := ys[winStart+k]
				for c := 0; c < dim; c++ {
					contrib[c] += wk * yk[c]
				}
			}
			intervals[iv] = contrib
			for c := 0; c < dim; c++ {
				total[c] += contrib[c]
			}
		}
		start += cover
	}
	return &Estimate{Integral: total, Intervals: intervals}
}
