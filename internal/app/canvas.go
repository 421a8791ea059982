package app

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mtratsiuk/tg-charts/internal/chart"
)

const brailleBase = '⠀'

// brailleDots maps a dot inside a 2x4 cell to its bit in the braille block.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleCanvas is a grid of terminal cells, each holding 2x4 dots. Dot (0,0)
// is the top-left corner.
type brailleCanvas struct {
	cols, rows int
	dots       [][]uint8
	colors     [][]string
}

func newBrailleCanvas(cols, rows int) *brailleCanvas {
	cols = maxInt(1, cols)
	rows = maxInt(1, rows)
	c := &brailleCanvas{
		cols:   cols,
		rows:   rows,
		dots:   make([][]uint8, rows),
		colors: make([][]string, rows),
	}
	for row := range c.dots {
		c.dots[row] = make([]uint8, cols)
		c.colors[row] = make([]string, cols)
	}
	return c
}

func (c *brailleCanvas) dotWidth() int  { return c.cols * 2 }
func (c *brailleCanvas) dotHeight() int { return c.rows * 4 }

func (c *brailleCanvas) set(x, y int, color string) {
	if x < 0 || y < 0 || x >= c.dotWidth() || y >= c.dotHeight() {
		return
	}
	col, row := x/2, y/4
	c.dots[row][col] |= brailleDots[y%4][x%2]
	if color != "" {
		c.colors[row][col] = color
	}
}

// line draws a segment between two dots with Bresenham's algorithm.
func (c *brailleCanvas) line(x0, y0, x1, y1 int, color string) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// plot draws every polyline of panel. Chart y grows upward, so it is flipped
// against the canvas height; both axes are clamped to the canvas. A point
// that is not finite is skipped and breaks the line.
func (c *brailleCanvas) plot(panel chart.ChartPanel) {
	maxX := float64(c.dotWidth() - 1)
	maxY := float64(c.dotHeight() - 1)
	for _, line := range panel.Lines {
		prevX, prevY, drawn := 0, 0, false
		for _, p := range line.Points {
			if !isFinite(p.X) || !isFinite(p.Y) {
				drawn = false
				continue
			}
			x := int(math.Round(clampFloat(p.X, 0, maxX)))
			y := int(math.Round(clampFloat(maxY-p.Y, 0, maxY)))
			if drawn {
				c.line(prevX, prevY, x, y, line.Color)
			} else {
				c.set(x, y, line.Color)
			}
			prevX, prevY, drawn = x, y, true
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *brailleCanvas) rune(col, row int) rune {
	return brailleBase + rune(c.dots[row][col])
}

// String renders the canvas without colors.
func (c *brailleCanvas) String() string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.rune(col, row))
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// render colors each run of cells sharing a series color.
func (c *brailleCanvas) render() string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(seriesStyle(runColor).Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			color := c.colors[row][col]
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(c.rune(col, row))
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

func seriesStyle(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle().Foreground(mutedText)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
