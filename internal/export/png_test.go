package export

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mtratsiuk/tg-charts/internal/chart"
)

func TestWritePNGRendersFrameAtPanelSize(t *testing.T) {
	t.Parallel()

	frame := chart.Frame{Charts: chart.ChartPanel{
		Width:  300,
		Height: 200,
		Lines: []chart.Polyline{{
			ElementID: "a",
			SeriesID:  "a",
			Name:      "Series A",
			Color:     "#3DC23F",
			Points:    []chart.Point{{X: 0, Y: 0}, {X: 150, Y: 200}, {X: 300, Y: 100}},
		}},
	}}

	var buf bytes.Buffer
	if err := WritePNG(&buf, frame); err != nil {
		t.Fatalf("WritePNG returned error: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 200 {
		t.Fatalf("expected 300x200 image, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestWritePNGRejectsEmptyFrame(t *testing.T) {
	t.Parallel()

	frame := chart.Frame{Charts: chart.ChartPanel{
		Width:  300,
		Height: 200,
		Lines:  []chart.Polyline{{ElementID: "a", SeriesID: "a"}},
	}}
	var buf bytes.Buffer
	if err := WritePNG(&buf, frame); !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written for empty frame")
	}
}

func TestImageSideHasMinimum(t *testing.T) {
	t.Parallel()

	if got := imageSide(10.2); got != minImageSide {
		t.Fatalf("expected minimum side %d, got %d", minImageSide, got)
	}
	if got := imageSide(120.4); got != 121 {
		t.Fatalf("expected ceil to 121, got %d", got)
	}
}

func TestLineStyleFallsBackForNonHexColors(t *testing.T) {
	t.Parallel()

	for _, color := range []string{"", "red", "rgb(1,2,3)", "#12345", "#GGGGGG"} {
		if got := lineStyle(color).StrokeColor; got != fallbackStroke {
			t.Fatalf("expected fallback stroke for %q, got %v", color, got)
		}
	}

	tests := map[string]drawing.Color{
		"#F34C44": {R: 0xF3, G: 0x4C, B: 0x44, A: 255},
		" 3dc23f": {R: 0x3D, G: 0xC2, B: 0x3F, A: 255},
		"#fff":    {R: 255, G: 255, B: 255, A: 255},
	}
	for color, want := range tests {
		if got := lineStyle(color).StrokeColor; got != want {
			t.Fatalf("expected %v for %q, got %v", want, color, got)
		}
	}
}
