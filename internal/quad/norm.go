package quad

import "math"

// Norm reduces a per-point error vector to a scalar. It is the single
// pluggable numerical reduction shared by all integrator variants.
type Norm func(Sample) float64

// RMSNorm is the default: root-mean-square across vector components.
func RMSNorm(s Sample) float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// MaxNorm reduces to the largest absolute component.
func MaxNorm(s Sample) float64 {
	max := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

// WeightedNorm returns an RMS norm with per-component weights. Components
// beyond len(w) are weighted 1.
func WeightedNorm(w []float64) Norm {
	return func(s Sample) float64 {
		if len(s) == 0 {
			return 0
		}
		sum := 0.0
		for i, v := range s {
			wi := 1.0
			if i < len(w) {
				wi = w[i]
			}
			sum += wi * wi * v * v
		}
		return math.Sqrt(sum / float64(len(s)))
	}
}
