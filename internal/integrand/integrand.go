// Package integrand provides built-in batch evaluators for the
// quadrature engine: analytic test functions and path-energy profiles.
package integrand

import (
	"math"

	"github.com/san-kum/pathint/internal/quad"
)

// Line is the identity integrand f(t) = t.
type Line struct{}

func NewLine() *Line { return &Line{} }

func (*Line) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i, t := range ts {
		ys[i] = quad.Sample{t}
	}
	return ys, nil
}

// Quadratic is f(t) = a*t^2; exact for any window degree >= 2, so the
// initial grid converges in a single round.
type Quadratic struct {
	Coeff float64
}

func NewQuadratic(coeff float64) *Quadratic {
	if coeff == 0 {
		coeff = 1
	}
	return &Quadratic{Coeff: coeff}
}

func (q *Quadratic) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i, t := range ts {
		ys[i] = quad.Sample{q.Coeff * t * t}
	}
	return ys, nil
}

// Sine is f(t) = sin(freq*t); high frequencies force grid refinement.
type Sine struct {
	Freq float64
}

func NewSine(freq float64) *Sine {
	if freq == 0 {
		freq = 20
	}
	return &Sine{Freq: freq}
}

func (s *Sine) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i, t := range ts {
		ys[i] = quad.Sample{math.Sin(s.Freq * t)}
	}
	return ys, nil
}

// Gauss is a narrow bump f(t) = exp(-((t-center)/width)^2), near zero
// away from center, so coarsening has something to remove.
type Gauss struct {
	Center float64
	Width  float64
}

func NewGauss(center, width float64) *Gauss {
	if width == 0 {
		width = 0.05
	}
	return &Gauss{Center: center, Width: width}
}

func (g *Gauss) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i, t := range ts {
		d := (t - g.Center) / g.Width
		ys[i] = quad.Sample{math.Exp(-d * d)}
	}
	return ys, nil
}

// Circle traces a circular path in the plane; samples are 2-D positions,
// so the integral is the signed area swept per component and the sample
// deltas are genuine geometric distances.
type Circle struct {
	Radius float64
}

func NewCircle(radius float64) *Circle {
	if radius == 0 {
		radius = 1
	}
	return &Circle{Radius: radius}
}

func (c *Circle) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i, t := range ts {
		a := 2 * math.Pi * t
		ys[i] = quad.Sample{c.Radius * math.Cos(a), c.Radius * math.Sin(a)}
	}
	return ys, nil
}

// Muller-Brown surface parameters (Muller & Brown 1979), the standard
// two-dimensional benchmark landscape for reaction-path methods.
var (
	mbA = [4]float64{-200, -100, -170, 15}
	mba = [4]float64{-1, -1, -6.5, 0.7}
	mbb = [4]float64{0, 0, 11, 0.6}
	mbc = [4]float64{-10, -10, -6.5, 0.7}
	mbX = [4]float64{1, 0, -0.5, -1}
	mbY = [4]float64{0, 0.5, 1.5, 1}
)

// MullerBrown evaluates the Muller-Brown potential energy along the
// straight segment between two of its minima; the integral is the mean
// energy of the segment times its length. Steep wells near the endpoints
// make it a realistic refinement workload.
type MullerBrown struct {
	X0, Y0 float64
	X1, Y1 float64
}

func NewMullerBrown() *MullerBrown {
	// Minimum A to minimum B.
	return &MullerBrown{X0: -0.558, Y0: 1.442, X1: 0.623, Y1: 0.028}
}

func (m *MullerBrown) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i, t := range ts {
		x := m.X0 + t*(m.X1-m.X0)
		y := m.Y0 + t*(m.Y1-m.Y0)
		ys[i] = quad.Sample{mullerBrownEnergy(x, y)}
	}
	return ys, nil
}

func mullerBrownEnergy(x, y float64) float64 {
	v := 0.0
	for k := 0; k < 4; k++ {
		dx := x - mbX[k]
		dy := y - mbY[k]
		v += mbA[k] * math.Exp(mba[k]*dx*dx+mbb[k]*dx*dy+mbc[k]*dy*dy)
	}
	return v
}

// Constant returns the same sample everywhere; with a coarsening
// threshold set, every interior grid point is redundant.
type Constant struct {
	Value quad.Sample
}

func NewConstant(vals ...float64) *Constant {
	if len(vals) == 0 {
		vals = []float64{1}
	}
	return &Constant{Value: quad.Sample(vals)}
}

func (c *Constant) Evaluate(ts []float64) ([]quad.Sample, error) {
	ys := make([]quad.Sample, len(ts))
	for i := range ts {
		ys[i] = c.Value.Clone()
	}
	return ys, nil
}
