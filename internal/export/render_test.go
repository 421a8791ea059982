package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/mtratsiuk/tg-charts/internal/chart"
	"github.com/mtratsiuk/tg-charts/internal/dataset"
)

func renderDataset() dataset.Dataset {
	return dataset.Dataset{
		Columns: []dataset.Column{
			{ID: "x", Values: []float64{0, 1, 2}},
			{ID: "a", Values: []float64{1, 5, 3}},
			{ID: "b", Values: []float64{8, 9, 10}},
		},
		Colors: map[string]string{"a": "#3DC23F", "b": "#F34C44"},
		Names:  map[string]string{"a": "Series A", "b": "Series B"},
	}
}

func TestRenderFrameSettlesHiddenSeries(t *testing.T) {
	t.Parallel()

	frame, err := RenderFrame(renderDataset(), 300, 400, []string{"b"}, chart.Options{})
	if err != nil {
		t.Fatalf("RenderFrame returned error: %v", err)
	}
	if len(frame.Charts.Lines) != 1 || frame.Charts.Lines[0].SeriesID != "a" {
		t.Fatalf("expected only a plotted, got %+v", frame.Charts.Lines)
	}
	if frame.Buttons.Buttons[1].Checked {
		t.Fatalf("expected b's button unchecked")
	}

	// Fully rescaled to a's own range [1,5].
	want := []chart.Point{{X: 0, Y: 0}, {X: 150, Y: 200}, {X: 300, Y: 100}}
	for idx, p := range want {
		if got := frame.Charts.Lines[0].Points[idx]; got != p {
			t.Fatalf("point %d: got %+v want %+v", idx, got, p)
		}
	}
}

func TestRenderFrameHidesRepeatedIDOnce(t *testing.T) {
	t.Parallel()

	frame, err := RenderFrame(renderDataset(), 300, 400, []string{"b", "b"}, chart.Options{})
	if err != nil {
		t.Fatalf("RenderFrame returned error: %v", err)
	}
	if len(frame.Charts.Lines) != 1 || frame.Charts.Lines[0].SeriesID != "a" {
		t.Fatalf("expected b to stay hidden, got %+v", frame.Charts.Lines)
	}
}

func TestRenderFrameWithoutHiddenSeries(t *testing.T) {
	t.Parallel()

	frame, err := RenderFrame(renderDataset(), 300, 400, nil, chart.Options{})
	if err != nil {
		t.Fatalf("RenderFrame returned error: %v", err)
	}
	if len(frame.Charts.Lines) != 2 || frame.Charts.Width != 300 || frame.Charts.Height != 200 {
		t.Fatalf("unexpected frame: %+v", frame.Charts)
	}
}

func TestRenderFrameRejectsUnknownSeries(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"zzz", dataset.TimelineID} {
		_, err := RenderFrame(renderDataset(), 300, 400, []string{id}, chart.Options{})
		if err == nil || !strings.Contains(err.Error(), "unknown series") {
			t.Fatalf("expected unknown series error for %q, got %v", id, err)
		}
	}
}

func TestRenderFramePropagatesMalformedDataset(t *testing.T) {
	t.Parallel()

	ds := renderDataset()
	ds.Columns[2].Values = ds.Columns[2].Values[:1]
	_, err := RenderFrame(ds, 300, 400, nil, chart.Options{})
	if !errors.Is(err, chart.ErrMalformedDataset) {
		t.Fatalf("expected ErrMalformedDataset, got %v", err)
	}
}
