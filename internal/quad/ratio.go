package quad

import "math"

// errorRatios compares two same-shaped estimate batches produced at
// degrees p and p+1 and returns one non-negative ratio per entry:
//
//	ratio = norm(yP1 - yP) / (atol + rtol*norm(yP1))
//
// Ratios above 1 mean the entry fails the accuracy requirement. When
// norm(yP1) is zero the scale falls back to atol alone; a zero scale with
// a nonzero difference yields +Inf rather than a division fault.
func errorRatios(yP, yP1 []Sample, atol, rtol float64, norm Norm) []float64 {
	ratios := make([]float64, len(yP1))
	for i := range yP1 {
		diff := norm(yP1[i].Sub(yP[i]))
		mag := norm(yP1[i])
		scale := atol + rtol*mag
		if mag == 0 {
			scale = atol
		}
		switch {
		case scale > 0:
			ratios[i] = diff / scale
		case diff == 0:
			ratios[i] = 0
		default:
			ratios[i] = math.Inf(1)
		}
	}
	return ratios
}

// maxRatio returns the largest entry, 0 for an empty slice.
func maxRatio(ratios []float64) float64 {
	max := 0.0
	for _, r := range ratios {
		if r > max {
			max = r
		}
	}
	return max
}
