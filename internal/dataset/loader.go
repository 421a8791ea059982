package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a local dataset file. Files ending in .xlsx go through the
// workbook reader; everything else is parsed as JSON. The resolved absolute
// path is returned alongside the dataset.
func LoadFile(path string) (Dataset, string, error) {
	rawPath := strings.TrimSpace(path)
	if rawPath == "" {
		return Dataset{}, "", fmt.Errorf("dataset file path is required")
	}
	if strings.Contains(rawPath, "://") {
		return Dataset{}, "", fmt.Errorf("only local filesystem paths are supported")
	}

	resolvedPath, err := filepath.Abs(rawPath)
	if err != nil {
		return Dataset{}, "", fmt.Errorf("resolve dataset path %q: %w", rawPath, err)
	}

	if strings.EqualFold(filepath.Ext(resolvedPath), ".xlsx") {
		ds, err := LoadWorkbook(resolvedPath)
		return ds, resolvedPath, err
	}

	blob, err := os.ReadFile(resolvedPath)
	if err != nil {
		return Dataset{}, resolvedPath, fmt.Errorf("read dataset file %q: %w", resolvedPath, err)
	}
	ds, err := Decode(blob)
	if err != nil {
		return Dataset{}, resolvedPath, fmt.Errorf("%s: %w", resolvedPath, err)
	}
	return ds, resolvedPath, nil
}
