package integrand

import (
	"fmt"
	"sort"

	"github.com/san-kum/pathint/internal/quad"
)

var constructors = map[string]func(params map[string]float64) quad.Evaluator{
	"line":      func(map[string]float64) quad.Evaluator { return NewLine() },
	"quadratic": func(p map[string]float64) quad.Evaluator { return NewQuadratic(p["coeff"]) },
	"sine":      func(p map[string]float64) quad.Evaluator { return NewSine(p["freq"]) },
	"gauss": func(p map[string]float64) quad.Evaluator {
		return NewGauss(p["center"], p["width"])
	},
	"circle":       func(p map[string]float64) quad.Evaluator { return NewCircle(p["radius"]) },
	"muller_brown": func(map[string]float64) quad.Evaluator { return NewMullerBrown() },
	"constant": func(p map[string]float64) quad.Evaluator {
		if v, ok := p["value"]; ok {
			return NewConstant(v)
		}
		return NewConstant()
	},
}

// New builds a named integrand; params supplies optional shape values
// (coeff, freq, center, width, radius, value), zero-valued when absent.
func New(name string, params map[string]float64) (quad.Evaluator, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("integrand: unknown integrand %q", name)
	}
	if params == nil {
		params = map[string]float64{}
	}
	return c(params), nil
}

// Names lists the available integrands, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
