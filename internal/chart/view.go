package chart

import "github.com/samber/lo"

type EventKind string

const EventClick EventKind = "click"

// Event is a host input resolved to the element it originated from.
// TargetID is empty when the input hit no element.
type Event struct {
	Kind     EventKind
	TargetID string
}

// Subscription binds an element and event kind to the message it dispatches.
type Subscription struct {
	ElementID string
	Kind      EventKind
	Msg       Msg
}

type Point struct {
	X, Y float64
}

// Polyline is one visible series in chart coordinates: X grows to the right,
// Y grows upward from 0 to the chart height.
type Polyline struct {
	ElementID string
	SeriesID  string
	Name      string
	Color     string
	Points    []Point
}

type Button struct {
	ElementID string
	SeriesID  string
	Label     string
	Color     string
	Checked   bool
}

type ChartPanel struct {
	Width  float64
	Height float64
	Lines  []Polyline
}

type ButtonPanel struct {
	Buttons []Button
}

// Frame is a complete rendering of State. It is rebuilt from scratch on
// every patch.
type Frame struct {
	Charts  ChartPanel
	Buttons ButtonPanel
}

// ButtonID is the element id of the toggle button for a series.
func ButtonID(seriesID string) string {
	return seriesID + "-button"
}

// view pairs a rendered node with the subscriptions it contributes.
type view[T any] struct {
	node T
	subs []Subscription
}

func wrap[T any](node T, subs ...Subscription) view[T] {
	return view[T]{node: node, subs: subs}
}

// collector flattens subscriptions from nested subviews.
type collector struct {
	subs []Subscription
}

func unwrap[T any](c *collector, v view[T]) T {
	c.subs = append(c.subs, v.subs...)
	return v.node
}

// View renders st into a Frame plus the subscriptions of every interactive
// element in it.
func View(sel *Selectors, st State) (Frame, []Subscription) {
	var c collector
	frame := Frame{
		Charts:  unwrap(&c, viewCharts(sel, st)),
		Buttons: unwrap(&c, viewButtons(st)),
	}
	return frame, c.subs
}

func viewCharts(sel *Selectors, st State) view[ChartPanel] {
	visible := sel.VisibleSeries(st)
	xs := sel.ScaledTimeline(st)
	scale := sel.ValuesScaler(st)

	lines := make([]Polyline, 0, visible.Len())
	for idx := 0; idx < visible.Len(); idx++ {
		lines = append(lines, viewPolyline(visible.At(idx), xs, scale, st.VisibleRange))
	}
	return wrap(ChartPanel{
		Width:  st.Viewport.Width,
		Height: st.Viewport.ChartsHeight,
		Lines:  lines,
	})
}

func viewPolyline(s Series, xs []float64, scale Scaler, rng IndexRange) Polyline {
	points := make([]Point, 0, rng.End-rng.Start+1)
	for idx := rng.Start; idx <= rng.End; idx++ {
		points = append(points, Point{X: xs[idx], Y: scale.Scale(s.Values[idx])})
	}
	return Polyline{
		ElementID: s.ID,
		SeriesID:  s.ID,
		Name:      s.Name,
		Color:     s.Color,
		Points:    points,
	}
}

func viewButtons(st State) view[ButtonPanel] {
	var c collector
	buttons := lo.Map(st.Charts.items, func(s Series, _ int) Button {
		return unwrap(&c, viewButton(s, st.VisibleIDs.Contains(s.ID)))
	})
	return wrap(ButtonPanel{Buttons: buttons}, c.subs...)
}

func viewButton(s Series, checked bool) view[Button] {
	id := ButtonID(s.ID)
	return wrap(
		Button{
			ElementID: id,
			SeriesID:  s.ID,
			Label:     s.Name,
			Color:     s.Color,
			Checked:   checked,
		},
		Subscription{ElementID: id, Kind: EventClick, Msg: ToggleChart{ID: s.ID}},
	)
}
