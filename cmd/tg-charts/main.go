// Package main provides the tg-charts command: an interactive terminal chart
// viewer plus headless export and inspection of chart datasets.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mtratsiuk/tg-charts/internal/app"
	"github.com/mtratsiuk/tg-charts/internal/chart"
	"github.com/mtratsiuk/tg-charts/internal/config"
	"github.com/mtratsiuk/tg-charts/internal/dataset"
	"github.com/mtratsiuk/tg-charts/internal/export"
	"github.com/mtratsiuk/tg-charts/internal/logger"
	"github.com/mtratsiuk/tg-charts/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type exportOptions struct {
	format string
	output string
	hide   []string
	width  float64
	height float64
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "tg-charts [dataset]",
		Short: "Interactive line charts in the terminal",
		Long: `tg-charts plots every series of a chart dataset (JSON or .xlsx) against its
shared x timeline. Toggle series with the number keys or by clicking their
buttons; the value axis rescales smoothly to the visible series.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath, args[0])
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML, JSON or TOML)")

	rootCmd.AddCommand(newExportCmd(&configPath), newInspectCmd(&configPath), newSnapshotsCmd(&configPath))
	return rootCmd
}

func newExportCmd(configPath *string) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export [dataset]",
		Short: "Render a dataset to SVG or PNG without the terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger.InitWithWriter(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			return runExport(cfg, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "Output format: svg or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringSliceVar(&opts.hide, "hide", nil, "Series ids to hide before rendering")
	cmd.Flags().Float64Var(&opts.width, "width", 600, "Container width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 800, "Container height in pixels")
	return cmd
}

func newInspectCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [dataset]",
		Short: "Print the series of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger.InitWithWriter(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			return runInspect(args[0], cmd.OutOrStdout())
		},
	}
}

func newSnapshotsCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "snapshots [bundle]",
		Short: "List saved snapshots, or print the markup of one bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger.InitWithWriter(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			store, err := storage.NewStore(cfg.Storage.Dir)
			if err != nil {
				return fmt.Errorf("initialize snapshot storage: %w", err)
			}
			if len(args) == 1 {
				return runShowSnapshot(store, args[0], cmd.OutOrStdout())
			}
			return runListSnapshots(store, limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of snapshots to list (0 for all)")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func chartOptions(cfg *config.Config) (chart.Options, error) {
	easing, err := chart.EasingByName(cfg.Animation.Easing)
	if err != nil {
		return chart.Options{}, err
	}
	return chart.Options{AnimationDuration: cfg.Animation.Duration, Easing: easing}, nil
}

func runTUI(configPath, datasetPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.InitWithWriter(cfg.Logging.Level, cfg.Logging.Format, logFile)

	ds, resolved, err := dataset.LoadFile(datasetPath)
	if err != nil {
		return err
	}
	opts, err := chartOptions(cfg)
	if err != nil {
		return err
	}
	store, err := storage.NewStore(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("initialize snapshot storage: %w", err)
	}
	logger.Info("starting tg-charts with %s (%d columns)", resolved, len(ds.Columns))

	model := app.NewModel(ds, store, app.ModelOptions{
		DatasetPath:       resolved,
		AnimationDuration: opts.AnimationDuration,
		Easing:            opts.Easing,
		FrameInterval:     cfg.Animation.FrameInterval,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

func runExport(cfg *config.Config, datasetPath string, opts exportOptions, stdout io.Writer) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	if format != "svg" && format != "png" {
		return fmt.Errorf("invalid format: %s (must be svg or png)", opts.format)
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}

	ds, _, err := dataset.LoadFile(datasetPath)
	if err != nil {
		return err
	}
	chartOpts, err := chartOptions(cfg)
	if err != nil {
		return err
	}
	hide := lo.Compact(lo.Map(opts.hide, func(id string, _ int) string {
		return strings.TrimSpace(id)
	}))
	frame, err := export.RenderFrame(ds, opts.width, opts.height, hide, chartOpts)
	if err != nil {
		return err
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == "png" {
		err = export.WritePNG(out, frame)
	} else {
		err = frame.WriteMarkup(out)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	if opts.output != "" {
		logger.Info("wrote %s", filepath.Clean(opts.output))
	}
	return nil
}

func runInspect(datasetPath string, stdout io.Writer) error {
	ds, resolved, err := dataset.LoadFile(datasetPath)
	if err != nil {
		return err
	}
	st, err := chart.BuildState(ds, chart.Viewport{})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "dataset: %s\n", resolved)
	fmt.Fprintf(stdout, "points:  %d\n\n", st.Timeline.Len())

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tMIN\tMAX")
	for idx := 0; idx < st.Charts.Len(); idx++ {
		s := st.Charts.At(idx)
		r := chart.Boundary(chart.NewSeriesSet([]chart.Series{s}))
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\n", s.ID, s.Name, lo.Ternary(s.Color == "", "-", s.Color), r.Min, r.Max)
	}
	return w.Flush()
}

func runListSnapshots(store *storage.Store, limit int, stdout io.Writer) error {
	items, err := store.List(limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "snapshots: %s\n\n", store.Dir())
	if len(items) == 0 {
		fmt.Fprintln(stdout, "no snapshots saved yet")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUNDLE\tSAVED\tVISIBLE\tIMAGE\tDATASET")
	for _, item := range items {
		visible := lo.Ternary(len(item.VisibleSeries) == 0, "-", strings.Join(item.VisibleSeries, ","))
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			filepath.Base(item.Directory), item.SavedAt, visible, lo.Ternary(item.HasImage, "yes", "no"), item.Dataset)
	}
	return w.Flush()
}

func runShowSnapshot(store *storage.Store, bundle string, stdout io.Writer) error {
	snap, err := store.Load(bundle)
	if err != nil {
		return err
	}
	logger.Debug("loaded snapshot %s from %s", snap.Summary.ID, snap.Summary.Directory)
	_, err = io.WriteString(stdout, snap.Markup)
	return err
}
