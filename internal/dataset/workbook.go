package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MetaSheet is the optional sheet holding "id | name | color" rows.
const MetaSheet = "meta"

// LoadWorkbook reads a dataset from an xlsx workbook. The first non-meta sheet
// holds the data: its header row lists column ids and each following row one
// timeline step. The optional meta sheet supplies names and colors.
func LoadWorkbook(path string) (Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	dataSheet := ""
	hasMeta := false
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, MetaSheet) {
			hasMeta = true
			continue
		}
		if dataSheet == "" {
			dataSheet = name
		}
	}
	if dataSheet == "" {
		return Dataset{}, fmt.Errorf("workbook %q has no data sheet", path)
	}

	rows, err := f.GetRows(dataSheet)
	if err != nil {
		return Dataset{}, fmt.Errorf("read sheet %q: %w", dataSheet, err)
	}
	ds, err := columnsFromRows(dataSheet, rows)
	if err != nil {
		return Dataset{}, err
	}

	if hasMeta {
		metaRows, err := f.GetRows(MetaSheet)
		if err != nil {
			return Dataset{}, fmt.Errorf("read sheet %q: %w", MetaSheet, err)
		}
		applyMetaRows(&ds, metaRows)
	}
	return ds, nil
}

func columnsFromRows(sheet string, rows [][]string) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	header := rows[0]
	columns := make([]Column, 0, len(header))
	for idx, cell := range header {
		id := strings.TrimSpace(cell)
		if id == "" {
			return Dataset{}, fmt.Errorf("sheet %q: header cell %d is empty", sheet, idx+1)
		}
		columns = append(columns, Column{ID: id})
	}

	for rowIdx, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		for colIdx := range columns {
			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if colIdx >= len(row) || strings.TrimSpace(row[colIdx]) == "" {
				return Dataset{}, fmt.Errorf("sheet %q: cell %s is empty", sheet, cellName)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx]), 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("sheet %q: cell %s is not a number: %q", sheet, cellName, row[colIdx])
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Dataset{}, fmt.Errorf("sheet %q: cell %s is not a finite number: %q", sheet, cellName, row[colIdx])
			}
			columns[colIdx].Values = append(columns[colIdx].Values, v)
		}
	}

	return Dataset{
		Columns: columns,
		Colors:  map[string]string{},
		Names:   map[string]string{},
	}, nil
}

func applyMetaRows(ds *Dataset, rows [][]string) {
	for idx, row := range rows {
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" || (idx == 0 && strings.EqualFold(id, "id")) {
			continue
		}
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			ds.Names[id] = strings.TrimSpace(row[1])
		}
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			ds.Colors[id] = strings.TrimSpace(row[2])
		}
	}
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
