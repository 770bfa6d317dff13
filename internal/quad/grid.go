package quad

// Grid bookkeeping: the engine keeps one sorted time grid with a
// positionally aligned sample set. New candidate points arrive in batches
// across refinement rounds; mergeIndices assigns each retained and each
// new entry its stable slot in the combined array up front, so values are
// placed once and old evaluations are never re-sorted or recomputed.

// uniformGrid returns n evenly spaced points spanning [t0, t1].
func uniformGrid(t0, t1 float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	ts := make([]float64, n)
	step := (t1 - t0) / float64(n-1)
	for i := range ts {
		ts[i] = t0 + float64(i)*step
	}
	ts[n-1] = t1
	return ts
}

// filterRange keeps the points of ts inside [t0, t1] and forces the two
// bounds into the result.
func filterRange(ts []float64, t0, t1 float64) []float64 {
	out := make([]float64, 0, len(ts)+2)
	out = append(out, t0)
	for _, t := range ts {
		if t > t0 && t < t1 {
			out = append(out, t)
		}
	}
	return append(out, t1)
}

// filterKnown drops candidates already present in the sorted grid ts.
// Candidates must be sorted; the scan is a two-pointer merge.
func filterKnown(cand, ts []float64) []float64 {
	out := cand[:0]
	j := 0
	for _, c := range cand {
		for j < len(ts) && ts[j] < c {
			j++
		}
		if j < len(ts) && ts[j] == c {
			continue
		}
		out = append(out, c)
	}
	return out
}

// mergeIndices assigns combined-array positions to the retained (old) and
// candidate (new) points. Both inputs must be sorted; the outputs map
// old[i] -> oldIdx[i] and new[i] -> newIdx[i] in the merged order.
func mergeIndices(oldT, newT []float64) (oldIdx, newIdx []int) {
	oldIdx = make([]int, len(oldT))
	newIdx = make([]int, len(newT))
	i, j := 0, 0
	for k := 0; k < len(oldT)+len(newT); k++ {
		if j >= len(newT) || (i < len(oldT) && oldT[i] <= newT[j]) {
			oldIdx[i] = k
			i++
		} else {
			newIdx[j] = k
			j++
		}
	}
	return oldIdx, newIdx
}

// mergeEvals places retained and newly evaluated points into one combined
// sorted grid with aligned samples. It is pure: inputs are not mutated.
// An empty candidate batch is a caller contract violation.
func mergeEvals(oldT []float64, oldY []Sample, newT []float64, newY []Sample) ([]float64, []Sample, error) {
	if len(newT) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	if len(newT) != len(newY) || len(oldT) != len(oldY) {
		return nil, nil, ErrInvalidSample
	}
	oldIdx, newIdx := mergeIndices(oldT, newT)

	ts := make([]float64, len(oldT)+len(newT))
	ys := make([]Sample, len(ts))
	for i, k := range oldIdx {
		ts[k] = oldT[i]
		ys[k] = oldY[i]
	}
	for j, k := range newIdx {
		ts[k] = newT[j]
		ys[k] = newY[j]
	}
	return ts, ys, nil
}

// sampleDeltas returns the Euclidean distance between adjacent samples,
// one entry per grid interval.
func sampleDeltas(ys []Sample) []float64 {
	if len(ys) < 2 {
		return nil
	}
	deltas := make([]float64, len(ys)-1)
	for i := 0; i < len(ys)-1; i++ {
		deltas[i] = ys[i+1].Sub(ys[i]).Norm()
	}
	return deltas
}

// coarsen removes grid points whose sample moved less than minSpacing from
// the previous point, collapsing repeatedly until every remaining interval
// clears the threshold. The later point of a close pair is removed, except
// next to t_final where removal shifts one point left so the boundary
// survives. Returns the reduced grid and whether it degenerated to the
// two boundary points.
func coarsen(ts []float64, ys []Sample, minSpacing float64) ([]float64, []Sample, bool) {
	if minSpacing <= 0 || len(ts) <= 2 {
		return ts, ys, false
	}
	hadInterior := len(ts) > 2
	for len(ts) > 2 {
		deltas := sampleDeltas(ys)
		n := len(ts)
		remove := make([]bool, n)
		any := false
		for i, d := range deltas {
			if d >= minSpacing {
				continue
			}
			// Candidate for removal is the later point of the pair;
			// never a boundary.
			j := i + 1
			if j == n-1 {
				j = n - 2
			}
			if j > 0 && j < n-1 {
				remove[j] = true
				any = true
			}
		}
		if !any {
			break
		}
		keptT := ts[:0]
		keptY := ys[:0]
		for i := range ts {
			if !remove[i] {
				keptT = append(keptT, ts[i])
				keptY = append(keptY, ys[i])
			}
		}
		ts, ys = keptT, keptY
	}
	return ts, ys, hadInterior && len(ts) == 2
}
