package main

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mtratsiuk/tg-charts/internal/chart"
	"github.com/mtratsiuk/tg-charts/internal/dataset"
	"github.com/mtratsiuk/tg-charts/internal/export"
	"github.com/mtratsiuk/tg-charts/internal/storage"
)

const sampleJSON = `{
  "columns": [
    ["x", 0, 1, 2],
    ["a", 1, 5, 3],
    ["b", 8, 9, 10]
  ],
  "colors": {"a": "#3DC23F", "b": "#F34C44"},
  "names": {"a": "Series A", "b": "Series B"}
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestExportWritesMarkupWithoutHiddenSeries(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "export", writeSample(t), "--hide", "b", "--width", "300", "--height", "400")
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	if !strings.Contains(out, `id="a"`) || strings.Contains(out, `id="b"`) {
		t.Fatalf("expected only series a plotted:\n%s", out)
	}
	if !strings.Contains(out, `id="b-button"`) {
		t.Fatalf("expected hidden series to keep its button:\n%s", out)
	}
	if !strings.Contains(out, `viewBox="0 -200 300 200"`) {
		t.Fatalf("expected viewport-sized markup:\n%s", out)
	}
}

func TestExportWritesPNGFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "chart.png")
	if _, err := execute(t, "export", writeSample(t), "-f", "png", "-o", target, "--width", "300", "--height", "400"); err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	f, err := os.Open(target)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 200 {
		t.Fatalf("expected 300x200 png, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	t.Parallel()

	path := writeSample(t)
	cases := [][]string{
		{"export", path, "--format", "gif"},
		{"export", path, "--hide", "nope"},
		{"export", path, "--width", "0"},
		{"export", filepath.Join(t.TempDir(), "missing.json")},
	}
	for _, args := range cases {
		if _, err := execute(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestInspectPrintsSeriesTable(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "inspect", writeSample(t))
	if err != nil {
		t.Fatalf("inspect returned error: %v", err)
	}
	for _, want := range []string{"points:  3", "Series A", "#F34C44"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.Fields(lines[len(lines)-1])
	if len(last) < 2 || last[0] != "b" || last[len(last)-2] != "8" || last[len(last)-1] != "10" {
		t.Fatalf("unexpected row for b: %q", lines[len(lines)-1])
	}
}

func TestRootRequiresDataset(t *testing.T) {
	t.Parallel()

	if _, err := execute(t); err == nil {
		t.Fatalf("expected error without dataset argument")
	}
}

func writeStorageConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "storage:\n  dir: " + dir + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestSnapshotsListsAndShowsBundles(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "snapshots")
	cfgPath := writeStorageConfig(t, dir)

	out, err := execute(t, "snapshots", "-c", cfgPath)
	if err != nil {
		t.Fatalf("snapshots returned error: %v", err)
	}
	if !strings.Contains(out, "no snapshots saved yet") {
		t.Fatalf("expected empty listing:\n%s", out)
	}

	datasetPath := writeSample(t)
	ds, _, err := dataset.LoadFile(datasetPath)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	frame, err := export.RenderFrame(ds, 300, 400, []string{"b"}, chart.Options{})
	if err != nil {
		t.Fatalf("RenderFrame returned error: %v", err)
	}
	store, err := storage.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	saved, err := store.Save(frame, datasetPath)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	bundle := filepath.Base(saved.Directory)

	out, err = execute(t, "snapshots", "-c", cfgPath)
	if err != nil {
		t.Fatalf("snapshots returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	row := strings.Fields(lines[len(lines)-1])
	if len(row) != 5 || row[0] != bundle || row[2] != "a" || row[3] != "yes" || row[4] != datasetPath {
		t.Fatalf("unexpected snapshot row: %q", lines[len(lines)-1])
	}

	out, err = execute(t, "snapshots", bundle, "-c", cfgPath)
	if err != nil {
		t.Fatalf("snapshots %s returned error: %v", bundle, err)
	}
	if !strings.Contains(out, `id="a"`) || strings.Contains(out, `id="b"`) {
		t.Fatalf("expected the saved markup:\n%s", out)
	}

	if _, err := execute(t, "snapshots", "missing-bundle", "-c", cfgPath); err == nil {
		t.Fatalf("expected error for unknown bundle")
	}
}
