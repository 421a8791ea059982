package chart

import (
	"testing"
	"time"

	"github.com/mtratsiuk/tg-charts/internal/dataset"
)

func scenarioDataset() dataset.Dataset {
	return dataset.Dataset{
		Columns: []dataset.Column{
			{ID: "x", Values: []float64{0, 1, 2}},
			{ID: "a", Values: []float64{1, 5, 3}},
			{ID: "b", Values: []float64{2, 2, 2}},
		},
		Colors: map[string]string{"a": "#3DC23F", "b": "#F34C44"},
		Names:  map[string]string{"a": "Series A", "b": "Series B"},
	}
}

func threeSeriesDataset() dataset.Dataset {
	ds := scenarioDataset()
	ds.Columns = append(ds.Columns, dataset.Column{ID: "c", Values: []float64{-4, 10, 0}})
	ds.Names["c"] = "Series C"
	return ds
}

func mustState(t *testing.T, ds dataset.Dataset) State {
	t.Helper()
	st, err := BuildState(ds, Viewport{Width: 300, ChartsHeight: 200})
	if err != nil {
		t.Fatalf("BuildState returned error: %v", err)
	}
	return st
}

type fakeHost struct {
	width, height float64
	frames        []Frame
	listeners     map[EventKind][]func(Event)
}

func newFakeHost() *fakeHost {
	return &fakeHost{width: 300, height: 400, listeners: map[EventKind][]func(Event){}}
}

func (h *fakeHost) Bounds() (float64, float64) { return h.width, h.height }

func (h *fakeHost) Replace(frame Frame) { h.frames = append(h.frames, frame) }

func (h *fakeHost) Listen(kind EventKind, handler func(Event)) {
	h.listeners[kind] = append(h.listeners[kind], handler)
}

func (h *fakeHost) emit(ev Event) {
	for _, fn := range h.listeners[ev.Kind] {
		fn(ev)
	}
}

// manualFrames queues frame callbacks until the test flushes them.
type manualFrames struct {
	pending []func(time.Time)
}

func (m *manualFrames) RequestFrame(fn func(time.Time)) {
	m.pending = append(m.pending, fn)
}

func (m *manualFrames) flush(at time.Time) int {
	queued := m.pending
	m.pending = nil
	for _, fn := range queued {
		fn(at)
	}
	return len(queued)
}

// syncFrames violates the effect contract by firing immediately.
type syncFrames struct{}

func (syncFrames) RequestFrame(fn func(time.Time)) { fn(time.Now()) }
