// Package chart is the state engine behind the line-chart viewer.
//
// A single State value is advanced by Reduce over a closed message set.
// Render-time values are derived through memoized selectors, animation is a
// chain of frame callbacks registered by effects, and View rebuilds the whole
// frame on every patch. The Controller owns the State and is its only writer.
//
// Every snapshot type held by State (*Timeline, *SeriesSet, *VisibilitySet,
// *Transition) is immutable once built; changes replace the pointer. The
// selector cache relies on that to detect changes by identity.
package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/mtratsiuk/tg-charts/internal/dataset"
)

// ErrMalformedDataset is matched by every MalformedDatasetError.
var ErrMalformedDataset = errors.New("malformed dataset")

// MalformedDatasetError describes why a dataset cannot be turned into a State.
type MalformedDatasetError struct {
	ColumnID string
	Reason   string
}

func (e *MalformedDatasetError) Error() string {
	if e.ColumnID == "" {
		return fmt.Sprintf("malformed dataset: %s", e.Reason)
	}
	return fmt.Sprintf("malformed dataset: column %q: %s", e.ColumnID, e.Reason)
}

func (e *MalformedDatasetError) Unwrap() error {
	return ErrMalformedDataset
}

// Timeline is the shared x-axis.
type Timeline struct {
	values []float64
}

func NewTimeline(values []float64) *Timeline {
	return &Timeline{values: append([]float64(nil), values...)}
}

func (t *Timeline) Len() int { return len(t.values) }

func (t *Timeline) At(i int) float64 { return t.values[i] }

// Series is one named, colored sequence aligned index-for-index with the Timeline.
type Series struct {
	ID     string
	Name   string
	Color  string
	Values []float64
}

// SeriesSet is an ordered, immutable collection of series.
type SeriesSet struct {
	items []Series
	index map[string]int
}

func NewSeriesSet(items []Series) *SeriesSet {
	set := &SeriesSet{
		items: append([]Series(nil), items...),
		index: make(map[string]int, len(items)),
	}
	for idx, s := range set.items {
		set.index[s.ID] = idx
	}
	return set
}

func (s *SeriesSet) Len() int { return len(s.items) }

// At returns the i-th series. Callers must not modify Values.
func (s *SeriesSet) At(i int) Series { return s.items[i] }

func (s *SeriesSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *SeriesSet) Get(id string) (Series, bool) {
	idx, ok := s.index[id]
	if !ok {
		return Series{}, false
	}
	return s.items[idx], true
}

func (s *SeriesSet) IDs() []string {
	ids := make([]string, len(s.items))
	for idx, item := range s.items {
		ids[idx] = item.ID
	}
	return ids
}

// VisibilitySet is the immutable set of shown series ids.
type VisibilitySet struct {
	ids     []string
	members map[string]struct{}
}

func NewVisibilitySet(ids ...string) *VisibilitySet {
	set := &VisibilitySet{members: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if _, dup := set.members[id]; dup {
			continue
		}
		set.members[id] = struct{}{}
		set.ids = append(set.ids, id)
	}
	return set
}

func (v *VisibilitySet) Len() int { return len(v.ids) }

func (v *VisibilitySet) Contains(id string) bool {
	_, ok := v.members[id]
	return ok
}

func (v *VisibilitySet) IDs() []string { return append([]string(nil), v.ids...) }

// Toggle returns a new set with id removed when present and added otherwise.
func (v *VisibilitySet) Toggle(id string) *VisibilitySet {
	if !v.Contains(id) {
		return NewVisibilitySet(append(v.IDs(), id)...)
	}
	next := make([]string, 0, len(v.ids))
	for _, existing := range v.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	return NewVisibilitySet(next...)
}

// IndexRange is an inclusive pair of timeline indices.
type IndexRange struct {
	Start int
	End   int
}

// Range is a closed numeric interval. A Range built from no values is
// {+Inf, -Inf} and reports Empty.
type Range struct {
	Min float64
	Max float64
}

func EmptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (r Range) Empty() bool {
	return r.Min > r.Max
}

// Transition is an in-flight rescale of the value axis.
type Transition struct {
	Progress     float64
	InitialRange Range
	Token        uint64
}

// Viewport is the chart area, fixed at initialization.
type Viewport struct {
	Width        float64
	ChartsHeight float64
}

// MeasureViewport derives the chart area from the host container size.
func MeasureViewport(width, height float64) Viewport {
	return Viewport{
		Width:        width,
		ChartsHeight: math.Min(width/1.5, height/2),
	}
}

type State struct {
	Timeline     *Timeline
	Charts       *SeriesSet
	VisibleIDs   *VisibilitySet
	VisibleRange IndexRange
	Transition   *Transition
	Viewport     Viewport

	// AnimationSeq is the last token handed to a Transition.
	AnimationSeq uint64
}

// Animating reports whether a transition is still in progress.
func (s State) Animating() bool {
	return s.Transition != nil && s.Transition.Progress < 1
}

// Update is a partial State produced by Reduce. Nil pointers and a zero
// AnimationSeq leave the corresponding fields untouched.
type Update struct {
	VisibleIDs *VisibilitySet

	Transition        *Transition
	ReplaceTransition bool

	AnimationSeq uint64
}

func (u Update) IsZero() bool {
	return u.VisibleIDs == nil && !u.ReplaceTransition && u.Transition == nil && u.AnimationSeq == 0
}

// Merge shallow-merges u into s.
func (s State) Merge(u Update) State {
	if u.VisibleIDs != nil {
		s.VisibleIDs = u.VisibleIDs
	}
	if u.ReplaceTransition || u.Transition != nil {
		s.Transition = u.Transition
	}
	if u.AnimationSeq != 0 {
		s.AnimationSeq = u.AnimationSeq
	}
	return s
}

// BuildState turns a dataset into the initial State: every series visible,
// the full timeline in range and no transition.
func BuildState(ds dataset.Dataset, viewport Viewport) (State, error) {
	var timeline *dataset.Column
	for idx := range ds.Columns {
		col := &ds.Columns[idx]
		if col.ID != dataset.TimelineID {
			continue
		}
		if timeline != nil {
			return State{}, &MalformedDatasetError{ColumnID: col.ID, Reason: "timeline column appears more than once"}
		}
		timeline = col
	}
	if timeline == nil {
		return State{}, &MalformedDatasetError{Reason: fmt.Sprintf("no timeline column %q", dataset.TimelineID)}
	}
	n := len(timeline.Values)
	if n == 0 {
		return State{}, &MalformedDatasetError{ColumnID: timeline.ID, Reason: "timeline is empty"}
	}
	if err := checkFinite(timeline); err != nil {
		return State{}, err
	}

	series := make([]Series, 0, len(ds.Columns)-1)
	seen := make(map[string]bool, len(ds.Columns))
	for _, col := range ds.Columns {
		if col.ID == dataset.TimelineID {
			continue
		}
		if seen[col.ID] {
			return State{}, &MalformedDatasetError{ColumnID: col.ID, Reason: "duplicate series id"}
		}
		seen[col.ID] = true
		if len(col.Values) != n {
			return State{}, &MalformedDatasetError{
				ColumnID: col.ID,
				Reason:   fmt.Sprintf("has %d values, timeline has %d", len(col.Values), n),
			}
		}
		if err := checkFinite(&col); err != nil {
			return State{}, err
		}
		series = append(series, Series{
			ID:     col.ID,
			Name:   ds.Name(col.ID),
			Color:  ds.Color(col.ID),
			Values: append([]float64(nil), col.Values...),
		})
	}

	charts := NewSeriesSet(series)
	return State{
		Timeline:     NewTimeline(timeline.Values),
		Charts:       charts,
		VisibleIDs:   NewVisibilitySet(charts.IDs()...),
		VisibleRange: IndexRange{Start: 0, End: n - 1},
		Viewport:     viewport,
	}, nil
}

// checkFinite rejects NaN and infinite values. Values are numbered from 1.
func checkFinite(col *dataset.Column) error {
	for idx, v := range col.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &MalformedDatasetError{ColumnID: col.ID, Reason: fmt.Sprintf("value %d is not finite", idx+1)}
		}
	}
	return nil
}
