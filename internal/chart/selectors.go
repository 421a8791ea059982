package chart

import (
	"math"

	"github.com/samber/lo"
)

// Selectors derives render-time values from State. Each selector recomputes
// only when one of its dependencies changes identity; otherwise the cached
// result is returned as is. A Selectors value belongs to one Controller.
type Selectors struct {
	easing Easing

	visibleSeries  *memo2[*SeriesSet, *VisibilitySet, *SeriesSet]
	boundary       *memo1[*SeriesSet, Range]
	valuesScaler   *memo3[*SeriesSet, float64, *Transition, Scaler]
	timelineScaler *memo3[*Timeline, IndexRange, float64, Scaler]
	scaledTimeline *memo2[*Timeline, Scaler, []float64]
}

func NewSelectors(easing Easing) *Selectors {
	if easing == nil {
		easing = Linear
	}
	s := &Selectors{easing: easing}
	s.visibleSeries = newMemo2(VisibleSeries)
	s.boundary = newMemo1(Boundary)
	s.valuesScaler = newMemo3(s.computeValuesScaler)
	s.timelineScaler = newMemo3(TimelineScaler)
	s.scaledTimeline = newMemo2(ScaledTimeline)
	return s
}

func (s *Selectors) VisibleSeries(st State) *SeriesSet {
	return s.visibleSeries.get(st.Charts, st.VisibleIDs)
}

// Boundary is the min/max over every value of the visible series.
func (s *Selectors) Boundary(st State) Range {
	return s.boundary.get(s.VisibleSeries(st))
}

func (s *Selectors) ValuesScaler(st State) Scaler {
	return s.valuesScaler.get(s.VisibleSeries(st), st.Viewport.ChartsHeight, st.Transition)
}

func (s *Selectors) TimelineScaler(st State) Scaler {
	return s.timelineScaler.get(st.Timeline, st.VisibleRange, st.Viewport.Width)
}

// ScaledTimeline is the timeline mapped to horizontal pixel positions.
func (s *Selectors) ScaledTimeline(st State) []float64 {
	return s.scaledTimeline.get(st.Timeline, s.TimelineScaler(st))
}

func (s *Selectors) computeValuesScaler(visible *SeriesSet, height float64, tr *Transition) Scaler {
	target := s.boundary.get(visible)
	rng := target
	if tr != nil {
		rng = tr.InitialRange.Lerp(target, s.easing(tr.Progress))
	}
	return NewScaler(rng, Range{Min: 0, Max: height}).WithFloor(0)
}

// VisibleSeries keeps the series whose ids are in visible, in declaration order.
func VisibleSeries(charts *SeriesSet, visible *VisibilitySet) *SeriesSet {
	return NewSeriesSet(lo.Filter(charts.items, func(s Series, _ int) bool {
		return visible.Contains(s.ID)
	}))
}

// Boundary returns the min/max across all values of set, or EmptyRange when
// there are none.
func Boundary(set *SeriesSet) Range {
	r := EmptyRange()
	for _, s := range set.items {
		for _, v := range s.Values {
			r.Min = math.Min(r.Min, v)
			r.Max = math.Max(r.Max, v)
		}
	}
	return r
}

// TimelineScaler maps [timeline[start], timeline[end]] onto [0, width].
func TimelineScaler(timeline *Timeline, visible IndexRange, width float64) Scaler {
	domain := Range{Min: timeline.At(visible.Start), Max: timeline.At(visible.End)}
	return NewScaler(domain, Range{Min: 0, Max: width})
}

func ScaledTimeline(timeline *Timeline, scaler Scaler) []float64 {
	return lo.Map(timeline.values, func(t float64, _ int) float64 {
		return scaler.Scale(t)
	})
}
