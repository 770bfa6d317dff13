package quad

import (
	"math"
	"sort"
	"testing"
)

func constSamples(n int, vals ...float64) []Sample {
	ys := make([]Sample, n)
	for i := range ys {
		ys[i] = append(Sample(nil), vals...)
	}
	return ys
}

func TestMergeEvals_Interleaves(t *testing.T) {
	oldT := []float64{0, 0.5, 1}
	oldY := []Sample{{0}, {5}, {10}}
	newT := []float64{0.25, 0.75}
	newY := []Sample{{2.5}, {7.5}}

	ts, ys, err := mergeEvals(oldT, oldY, newT, newY)
	if err != nil {
		t.Fatalf("mergeEvals returned error: %v", err)
	}
	if len(ts) != 5 || len(ys) != 5 {
		t.Fatalf("expected 5 merged points, got %d times, %d samples", len(ts), len(ys))
	}
	if !sort.Float64sAreSorted(ts) {
		t.Errorf("merged grid not sorted: %v", ts)
	}
	for i, tv := range ts {
		if ys[i][0] != tv*10 {
			t.Errorf("sample misaligned at %d: t=%v y=%v", i, tv, ys[i][0])
		}
	}
}

func TestMergeEvals_EmptyBatch(t *testing.T) {
	_, _, err := mergeEvals([]float64{0, 1}, []Sample{{0}, {1}}, nil, nil)
	if err != ErrEmptyBatch {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestMergeEvals_FirstBatch(t *testing.T) {
	ts, ys, err := mergeEvals(nil, nil, []float64{0, 1}, []Sample{{1}, {2}})
	if err != nil {
		t.Fatalf("mergeEvals returned error: %v", err)
	}
	if len(ts) != 2 || ys[0][0] != 1 || ys[1][0] != 2 {
		t.Errorf("first batch mangled: %v %v", ts, ys)
	}
}

func TestMergeIndices_ArbitraryInterleave(t *testing.T) {
	oldIdx, newIdx := mergeIndices([]float64{0.2, 0.6}, []float64{0.1, 0.4, 0.9})
	wantOld := []int{1, 3}
	wantNew := []int{0, 2, 4}
	for i := range wantOld {
		if oldIdx[i] != wantOld[i] {
			t.Errorf("oldIdx[%d] = %d, want %d", i, oldIdx[i], wantOld[i])
		}
	}
	for i := range wantNew {
		if newIdx[i] != wantNew[i] {
			t.Errorf("newIdx[%d] = %d, want %d", i, newIdx[i], wantNew[i])
		}
	}
}

func TestCoarsen_KeepsBoundaries(t *testing.T) {
	ts := []float64{0, 0.25, 0.5, 0.75, 1}
	ys := constSamples(5, 3.0)

	outT, outY, degenerate := coarsen(ts, ys, 0.1)
	if !degenerate {
		t.Error("constant samples with large threshold should degenerate")
	}
	if len(outT) != 2 || len(outY) != 2 {
		t.Fatalf("expected 2 surviving points, got %d", len(outT))
	}
	if outT[0] != 0 || outT[1] != 1 {
		t.Errorf("boundaries not preserved: %v", outT)
	}
}

func TestCoarsen_Disabled(t *testing.T) {
	ts := []float64{0, 0.5, 1}
	ys := constSamples(3, 1.0)
	outT, _, degenerate := coarsen(ts, ys, 0)
	if degenerate || len(outT) != 3 {
		t.Errorf("zero threshold must not remove points: %v", outT)
	}
}

func TestCoarsen_RemovesOnlyRedundantRuns(t *testing.T) {
	// Samples move quickly over [0, 0.5] and stall after.
	ts := []float64{0, 0.25, 0.5, 0.6, 0.7, 0.8, 1}
	ys := []Sample{{0}, {1}, {2}, {2.001}, {2.002}, {2.003}, {2.004}}

	outT, outY, degenerate := coarsen(ts, ys, 0.01)
	if degenerate {
		t.Error("grid with live intervals must not degenerate")
	}
	if len(outT) != len(outY) {
		t.Fatalf("grid/sample length mismatch: %d vs %d", len(outT), len(outY))
	}
	if outT[0] != 0 || outT[len(outT)-1] != 1 {
		t.Errorf("boundaries not preserved: %v", outT)
	}
	for _, d := range sampleDeltas(outY) {
		if d < 0.01 {
			t.Errorf("interval below spacing threshold survived: %v", outT)
		}
	}
	// The stalled run after t=0.5 collapses entirely; 0.5 itself goes
	// too because its sample sits within the threshold of the protected
	// t_final sample.
	for _, keep := range []float64{0, 0.25} {
		found := false
		for _, tv := range outT {
			if tv == keep {
				found = true
			}
		}
		if !found {
			t.Errorf("live point %v was removed: %v", keep, outT)
		}
	}
	if len(outT) != 3 {
		t.Errorf("expected 3 surviving points, got %v", outT)
	}
}

func TestUniformGrid(t *testing.T) {
	ts := uniformGrid(0, 1, 101)
	if len(ts) != 101 {
		t.Fatalf("expected 101 points, got %d", len(ts))
	}
	if ts[0] != 0 || ts[100] != 1 {
		t.Errorf("bounds wrong: [%v, %v]", ts[0], ts[100])
	}
	for i := 1; i < len(ts); i++ {
		if math.Abs((ts[i]-ts[i-1])-0.01) > 1e-12 {
			t.Errorf("non-uniform spacing at %d", i)
		}
	}
}

func TestFilterRange(t *testing.T) {
	ts := filterRange([]float64{-1, 0, 0.3, 0.7, 1, 2}, 0, 1)
	want := []float64{0, 0.3, 0.7, 1}
	if len(ts) != len(want) {
		t.Fatalf("got %v, want %v", ts, want)
	}
	for i := range want {
		if ts[i] != want[i] {
			t.Errorf("got %v, want %v", ts, want)
			break
		}
	}
}

func TestFilterKnown(t *testing.T) {
	out := filterKnown([]float64{0.1, 0.5, 0.9}, []float64{0, 0.5, 1})
	if len(out) != 2 || out[0] != 0.1 || out[1] != 0.9 {
		t.Errorf("expected known point dropped, got %v", out)
	}
}
