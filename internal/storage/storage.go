package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtratsiuk/tg-charts/internal/chart"
	"github.com/mtratsiuk/tg-charts/internal/export"
)

const (
	summaryFile = "summary.json"
	markupFile  = "frame.svg"
	imageFile   = "chart.png"

	// Fixed-width so saved_at sorts lexically.
	savedAtLayout = "2006-01-02T15:04:05.000000000Z"
)

type Store struct {
	snapshotsDir string
}

type Summary struct {
	ID            string   `json:"id"`
	SavedAt       string   `json:"saved_at"`
	Dataset       string   `json:"dataset"`
	VisibleSeries []string `json:"visible_series"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	HasImage      bool     `json:"has_image"`
	Directory     string   `json:"directory"`
}

type Snapshot struct {
	Summary Summary `json:"summary"`
	Markup  string  `json:"markup"`
}

func NewStore(rootDir string) (*Store, error) {
	snapshotsDir := filepath.Clean(rootDir)
	if err := os.MkdirAll(snapshotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshots dir: %w", err)
	}
	return &Store{snapshotsDir: snapshotsDir}, nil
}

func (s *Store) Dir() string {
	return s.snapshotsDir
}

// Save writes frame into a new timestamped bundle directory. A frame with no
// visible lines still gets its summary and markup; only the image is skipped.
// A bundle that fails to write is removed.
func (s *Store) Save(frame chart.Frame, datasetPath string) (Summary, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	dirName := fmt.Sprintf("%s-%s", now.Format("20060102-150405"), id[:8])
	dirPath := filepath.Join(s.snapshotsDir, dirName)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create snapshot dir: %w", err)
	}

	summary := Summary{
		ID:            id,
		SavedAt:       now.Format(savedAtLayout),
		Dataset:       strings.TrimSpace(datasetPath),
		VisibleSeries: make([]string, 0, len(frame.Charts.Lines)),
		Width:         frame.Charts.Width,
		Height:        frame.Charts.Height,
		Directory:     dirPath,
	}
	for _, line := range frame.Charts.Lines {
		summary.VisibleSeries = append(summary.VisibleSeries, line.SeriesID)
	}

	if err := writeBundle(dirPath, frame, &summary); err != nil {
		_ = os.RemoveAll(dirPath)
		return Summary{}, err
	}
	return summary, nil
}

func writeBundle(dirPath string, frame chart.Frame, summary *Summary) error {
	markup, err := frame.Markup()
	if err != nil {
		return fmt.Errorf("encode markup: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirPath, markupFile), []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", markupFile, err)
	}

	hasImage, err := writeImage(filepath.Join(dirPath, imageFile), frame)
	if err != nil {
		return err
	}
	summary.HasImage = hasImage

	return writeJSON(filepath.Join(dirPath, summaryFile), summary)
}

func writeImage(path string, frame chart.Frame) (bool, error) {
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("create %s: %w", imageFile, err)
	}
	renderErr := export.WritePNG(f, frame)
	closeErr := f.Close()
	if errors.Is(renderErr, export.ErrEmptyFrame) {
		_ = os.Remove(path)
		return false, nil
	}
	if renderErr != nil {
		return false, renderErr
	}
	if closeErr != nil {
		return false, fmt.Errorf("close %s: %w", imageFile, closeErr)
	}
	return true, nil
}

// List returns saved summaries, newest first. Directories without a readable
// summary are skipped.
func (s *Store) List(limit int) ([]Summary, error) {
	entries, err := os.ReadDir(s.snapshotsDir)
	if err != nil {
		return nil, fmt.Errorf("read snapshots dir: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var summary Summary
		if err := readJSON(filepath.Join(s.snapshotsDir, entry.Name(), summaryFile), &summary); err != nil {
			continue
		}
		if summary.Directory == "" {
			summary.Directory = filepath.Join(s.snapshotsDir, entry.Name())
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SavedAt > summaries[j].SavedAt
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Load reads a bundle by absolute path or by its name under the store.
func (s *Store) Load(directory string) (*Snapshot, error) {
	dir := strings.TrimSpace(directory)
	if dir == "" {
		return nil, fmt.Errorf("directory is required")
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.snapshotsDir, dir)
	}

	var summary Summary
	if err := readJSON(filepath.Join(dir, summaryFile), &summary); err != nil {
		return nil, err
	}
	markup, err := os.ReadFile(filepath.Join(dir, markupFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", markupFile, err)
	}
	summary.Directory = dir
	return &Snapshot{Summary: summary, Markup: string(markup)}, nil
}

func writeJSON(path string, value any) error {
	blob, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json for %s: %w", path, err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, out any) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
