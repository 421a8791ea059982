package chart

import (
	"math"
	"testing"
)

func TestBoundaryMatchesTrueMinMax(t *testing.T) {
	t.Parallel()

	st := mustState(t, threeSeriesDataset())
	sel := NewSelectors(nil)

	if got := sel.Boundary(st); got != (Range{Min: -4, Max: 10}) {
		t.Fatalf("unexpected boundary: %v", got)
	}

	st.VisibleIDs = NewVisibilitySet("b")
	if got := sel.Boundary(st); got != (Range{Min: 2, Max: 2}) {
		t.Fatalf("unexpected single-series boundary: %v", got)
	}
}

func TestBoundaryOfEmptySetUsesInfiniteSentinels(t *testing.T) {
	t.Parallel()

	r := Boundary(NewSeriesSet(nil))
	if !math.IsInf(r.Min, 1) || !math.IsInf(r.Max, -1) || !r.Empty() {
		t.Fatalf("expected {+Inf,-Inf}, got %v", r)
	}

	// A finite placeholder seed would hide all-negative or huge values.
	r = Boundary(NewSeriesSet([]Series{{ID: "n", Values: []float64{-1e308, -5}}}))
	if r.Min != -1e308 || r.Max != -5 {
		t.Fatalf("unexpected boundary for negative series: %v", r)
	}
}

func TestBoundaryRestoredAfterHideAllAndReshow(t *testing.T) {
	t.Parallel()

	st := mustState(t, threeSeriesDataset())
	sel := NewSelectors(nil)
	original := sel.Boundary(st)

	for _, id := range st.Charts.IDs() {
		st.VisibleIDs = st.VisibleIDs.Toggle(id)
	}
	if !sel.Boundary(st).Empty() {
		t.Fatalf("expected empty boundary with nothing visible")
	}
	for _, id := range st.Charts.IDs() {
		st.VisibleIDs = st.VisibleIDs.Toggle(id)
	}
	if got := sel.Boundary(st); got != original {
		t.Fatalf("expected boundary %v after re-show, got %v", original, got)
	}
}

func TestVisibleSeriesKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	st := mustState(t, threeSeriesDataset())
	st.VisibleIDs = NewVisibilitySet("c", "a")

	got := VisibleSeries(st.Charts, st.VisibleIDs).IDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected [a c], got %v", got)
	}
}

func TestSelectorsReturnCachedResultForIdenticalDeps(t *testing.T) {
	t.Parallel()

	st := mustState(t, scenarioDataset())
	sel := NewSelectors(nil)

	first := sel.VisibleSeries(st)
	second := sel.VisibleSeries(st)
	if first != second {
		t.Fatalf("expected identical cached result")
	}
	if sel.visibleSeries.runs != 1 {
		t.Fatalf("expected one computation, got %d", sel.visibleSeries.runs)
	}

	xs1 := sel.ScaledTimeline(st)
	xs2 := sel.ScaledTimeline(st)
	if &xs1[0] != &xs2[0] {
		t.Fatalf("expected scaled timeline to be returned from cache")
	}
	if sel.scaledTimeline.runs != 1 || sel.timelineScaler.runs != 1 {
		t.Fatalf("expected single computations, got scaled=%d scaler=%d",
			sel.scaledTimeline.runs, sel.timelineScaler.runs)
	}
}

func TestSelectorsRecomputeOnceWhenOneDependencyChanges(t *testing.T) {
	t.Parallel()

	st := mustState(t, scenarioDataset())
	sel := NewSelectors(nil)
	sel.ValuesScaler(st)
	runs := sel.valuesScaler.runs

	// Same contents, new identity.
	st.VisibleIDs = NewVisibilitySet(st.VisibleIDs.IDs()...)
	sel.VisibleSeries(st)
	sel.VisibleSeries(st)
	if sel.visibleSeries.runs != 2 {
		t.Fatalf("expected exactly one recomputation, got %d runs", sel.visibleSeries.runs)
	}

	st.Transition = &Transition{Progress: 0.5, InitialRange: Range{Min: 0, Max: 9}}
	sel.ValuesScaler(st)
	sel.ValuesScaler(st)
	if sel.valuesScaler.runs != runs+1 {
		t.Fatalf("expected one values scaler recomputation, got %d", sel.valuesScaler.runs-runs)
	}

	// Unrelated dependency: the timeline scaler must stay cached.
	sel.TimelineScaler(st)
	sel.TimelineScaler(st)
	if sel.timelineScaler.runs != 1 {
		t.Fatalf("expected timeline scaler to be computed once, got %d", sel.timelineScaler.runs)
	}
}

func TestValuesScalerInterpolatesDuringTransition(t *testing.T) {
	t.Parallel()

	st := mustState(t, scenarioDataset())
	sel := NewSelectors(nil)
	st.VisibleIDs = NewVisibilitySet("b")
	st.Transition = &Transition{Progress: 0.5, InitialRange: Range{Min: 0, Max: 4}}

	s := sel.ValuesScaler(st)
	if s.InMin != 1 || s.InMax != 3 {
		t.Fatalf("expected halfway domain [1,3], got [%v,%v]", s.InMin, s.InMax)
	}
	if s.OutMin != 0 || s.OutMax != st.Viewport.ChartsHeight || !s.Floor {
		t.Fatalf("unexpected output range: %+v", s)
	}

	st.Transition = &Transition{Progress: 1, InitialRange: Range{Min: 0, Max: 4}}
	s = sel.ValuesScaler(st)
	if s.InMin != 2 || s.InMax != 2 {
		t.Fatalf("expected target domain at progress 1, got [%v,%v]", s.InMin, s.InMax)
	}
}

func TestScaledTimelineMapsToWidth(t *testing.T) {
	t.Parallel()

	st := mustState(t, scenarioDataset())
	xs := NewSelectors(nil).ScaledTimeline(st)
	if len(xs) != 3 || xs[0] != 0 || xs[1] != 150 || xs[2] != 300 {
		t.Fatalf("unexpected scaled timeline: %v", xs)
	}
}

func TestSpringEasingIsMonotoneAndFixesEndpoints(t *testing.T) {
	t.Parallel()

	ease := Spring(6.0)
	if ease(0) != 0 || ease(1) != 1 {
		t.Fatalf("expected fixed endpoints, got %v %v", ease(0), ease(1))
	}
	prev := 0.0
	for i := 0; i <= 100; i++ {
		v := ease(float64(i) / 100)
		if v < prev || v > 1 {
			t.Fatalf("easing not monotone in [0,1] at %d: %v after %v", i, v, prev)
		}
		prev = v
	}

	if _, err := EasingByName("bounce"); err == nil {
		t.Fatalf("expected unknown easing error")
	}
}
