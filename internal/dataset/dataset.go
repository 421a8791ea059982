// Package dataset defines the raw chart dataset shape and its file loaders.
//
// A dataset is a set of columns in the wire form [id, v1, v2, ..., vN] plus
// per-column colors and display names. Exactly one column carries TimelineID
// and holds the shared x-axis; every other column is a series.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TimelineID is the reserved column id of the x-axis column.
const TimelineID = "x"

type Dataset struct {
	Columns []Column          `json:"columns"`
	Colors  map[string]string `json:"colors"`
	Names   map[string]string `json:"names"`
}

type Column struct {
	ID     string
	Values []float64
}

// UnmarshalJSON decodes the [id, v1, ..., vN] array form.
func (c *Column) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("column must be an array: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("column array is empty")
	}

	var id string
	if err := json.Unmarshal(raw[0], &id); err != nil {
		return fmt.Errorf("column id must be a string: %w", err)
	}

	values := make([]float64, 0, len(raw)-1)
	for idx, item := range raw[1:] {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("column %q value %d is not a number", id, idx+1)
		}
		f, err := num.Float64()
		if err != nil {
			return fmt.Errorf("column %q value %d: %w", id, idx+1, err)
		}
		values = append(values, f)
	}

	c.ID = id
	c.Values = values
	return nil
}

// Column returns the column with the given id.
func (d Dataset) Column(id string) (Column, bool) {
	for _, col := range d.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// Name returns the display name for id, falling back to the id itself.
func (d Dataset) Name(id string) string {
	if name := strings.TrimSpace(d.Names[id]); name != "" {
		return name
	}
	return id
}

// Color returns the configured color for id or an empty string.
func (d Dataset) Color(id string) string {
	return strings.TrimSpace(d.Colors[id])
}

// Decode parses a JSON dataset and requires a top-level object.
func Decode(blob []byte) (Dataset, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Dataset{}, fmt.Errorf("dataset JSON must be a top-level object")
	}
	var ds Dataset
	if err := json.Unmarshal(trimmed, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset JSON: %w", err)
	}
	return ds, nil
}
