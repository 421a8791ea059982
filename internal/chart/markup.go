package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
)

var markupFuncs = template.FuncMap{
	"num": formatNumber,
	"points": func(points []Point) string {
		parts := make([]string, len(points))
		for idx, p := range points {
			parts[idx] = formatNumber(p.X) + "," + formatNumber(-p.Y)
		}
		return strings.Join(parts, " ")
	},
	"stroke": func(color string) string {
		if strings.TrimSpace(color) == "" {
			return "currentColor"
		}
		return color
	},
}

// The y axis is inverted by negating every y coordinate and shifting the
// viewBox origin up by the chart height, so values grow upward.
var markupTemplate = template.Must(template.New("frame").Funcs(markupFuncs).Parse(`<div>
  <div class="charts">
    <svg width="{{num .Charts.Width}}" height="{{num .Charts.Height}}" viewBox="0 -{{num .Charts.Height}} {{num .Charts.Width}} {{num .Charts.Height}}">
{{- range .Charts.Lines}}
      <polyline points="{{points .Points}}" fill="none" stroke="{{stroke .Color}}" id="{{.ElementID}}" />
{{- end}}
    </svg>
  </div>
  <div class="buttons">
{{- range .Buttons.Buttons}}
    <button id="{{.ElementID}}" data-color="{{stroke .Color}}" aria-pressed="{{.Checked}}">{{.Label}}</button>
{{- end}}
  </div>
</div>
`))

// WriteMarkup encodes f as HTML with an inline SVG chart.
func (f Frame) WriteMarkup(w io.Writer) error {
	if err := markupTemplate.Execute(w, f); err != nil {
		return fmt.Errorf("render frame markup: %w", err)
	}
	return nil
}

func (f Frame) Markup() (string, error) {
	var buf bytes.Buffer
	if err := f.WriteMarkup(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatNumber(v float64) string {
	if v == 0 {
		// -0 prints as "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
