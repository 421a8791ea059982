// Package export renders frames into image formats for sharing outside the
// terminal.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mtratsiuk/tg-charts/internal/chart"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyFrame is returned when a frame has no plotted points.
var ErrEmptyFrame = errors.New("frame has no visible lines")

const (
	minImageSide = 64
	strokeWidth  = 2.0
)

var fallbackStroke = drawing.ColorFromHex("8CA1AE")

// WritePNG renders the frame's polylines as a PNG. Points are already in
// chart coordinates, so both axes are pinned to the panel bounds and the
// image never rescales on its own.
func WritePNG(w io.Writer, frame chart.Frame) error {
	series := make([]gochart.Series, 0, len(frame.Charts.Lines))
	for _, line := range frame.Charts.Lines {
		if len(line.Points) == 0 {
			continue
		}
		xs := make([]float64, len(line.Points))
		ys := make([]float64, len(line.Points))
		for idx, p := range line.Points {
			xs[idx] = p.X
			ys[idx] = p.Y
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(line.Color),
		})
	}
	if len(series) == 0 {
		return ErrEmptyFrame
	}

	width, height := frame.Charts.Width, frame.Charts.Height
	ch := gochart.Chart{
		Width:      imageSide(width),
		Height:     imageSide(height),
		Background: gochart.Style{Padding: gochart.Box{Top: 8, Left: 8, Right: 8, Bottom: 8}},
		XAxis: gochart.XAxis{
			Style: gochart.Style{Hidden: true},
			Range: &gochart.ContinuousRange{Min: 0, Max: math.Max(width, 1)},
		},
		YAxis: gochart.YAxis{
			Style: gochart.Style{Hidden: true},
			Range: &gochart.ContinuousRange{Min: 0, Max: math.Max(height, 1)},
		},
		Series: series,
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

func lineStyle(color string) gochart.Style {
	stroke := fallbackStroke
	if hex := strings.TrimPrefix(strings.TrimSpace(color), "#"); isHexColor(hex) {
		stroke = drawing.ColorFromHex(hex)
	}
	return gochart.Style{
		StrokeColor: stroke,
		StrokeWidth: strokeWidth,
	}
}

func imageSide(v float64) int {
	side := int(math.Ceil(v))
	if side < minImageSide {
		return minImageSide
	}
	return side
}

// isHexColor accepts the short and long RGB forms ColorFromHex understands.
func isHexColor(hex string) bool {
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	return strings.Trim(strings.ToLower(hex), "0123456789abcdef") == ""
}
