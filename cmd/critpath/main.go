package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/joshharrison/critpath/internal/analysis"
	"github.com/joshharrison/critpath/internal/config"
	"github.com/joshharrison/critpath/internal/diag"
	"github.com/joshharrison/critpath/internal/logger"
	"github.com/joshharrison/critpath/internal/reporter"
	"github.com/joshharrison/critpath/internal/ui"
)

var (
	flagConfig  string
	flagNoColor bool
	flagFormat  string
)

// app is built once per invocation, after flags are parsed.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "critpath",
		Short: "Validate and schedule activity dependency graphs with the critical path method",
		Long: `Critpath reads activity records (identifier, successors, predecessors,
duration, resource demand) from CSV or JSON files, validates the dependency
graph they describe, and computes early/late times, slack, the critical path
and the day-by-day resource load.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ./critpath.yaml if present)")
	pf.Bool("json", false, "Machine-readable JSON output")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	pf.String("input-format", "auto", "Input format (auto, csv, json)")
	pf.String("separator", ",", "Separator inside predecessor/successor lists")
	pf.Bool("header", false, "CSV input starts with a header row")
	pf.Bool("per-component", true, "Schedule each disconnected subproject against its own finish")

	for key, name := range map[string]string{
		"logger.level":           "log-level",
		"report.json":            "json",
		"input.format":           "input-format",
		"input.separator":        "separator",
		"input.has_header":       "header",
		"schedule.per_component": "per-component",
	} {
		_ = v.BindPFlag(key, pf.Lookup(name))
	}

	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(scheduleCmd(a))
	rootCmd.AddCommand(loadCmd(a))
	rootCmd.AddCommand(vizCmd(a))

	return rootCmd
}

func (a *app) setup(v *viper.Viper) error {
	cfg, err := config.Load(v, flagConfig)
	if err != nil {
		return err
	}
	log, err := logger.Build(cfg.Logger, os.Stderr)
	if err != nil {
		return err
	}
	if flagNoColor || cfg.Report.JSON {
		ui.SetEnabled(false)
	}
	a.cfg = cfg
	a.log = log
	log.Debug("configuration loaded", zap.String("file", v.ConfigFileUsed()))
	return nil
}

func (a *app) analyzer() *analysis.Analyzer {
	return analysis.New(a.log.Logger, analysis.Options{
		Graph:    a.cfg.GraphOptions(),
		Schedule: a.cfg.ScheduleOptions(),
		Load:     a.cfg.LoadOptions(),
	})
}

// analyze runs every file concurrently and returns results in argument order.
func (a *app) analyze(ctx context.Context, paths []string) ([]*analysis.Result, error) {
	sources := make([]analysis.Source, len(paths))
	for i, p := range paths {
		sources[i] = analysis.FileSource(p, a.cfg.IngestOptions())
	}
	results, err := a.analyzer().RunBatch(ctx, sources)
	if err != nil {
		a.log.Error("analysis failed", zap.Error(err))
		return nil, err
	}
	return results, nil
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check activity files for structural problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.analyze(cmd.Context(), args)
			if err != nil {
				return err
			}

			if a.cfg.Report.JSON {
				type validation struct {
					Name        string    `json:"name"`
					Valid       bool      `json:"valid"`
					Diagnostics diag.List `json:"diagnostics"`
				}
				out := make([]validation, len(results))
				for i, res := range results {
					out[i] = validation{Name: res.Name, Valid: res.Valid, Diagnostics: res.Diagnostics}
				}
				if err := outputJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
				return invalidCount(results)
			}

			w := cmd.OutOrStdout()
			for _, res := range results {
				reporter.New(res, a.cfg.Report.BarWidth).PrintDiagnostics(w)
				fmt.Fprintln(w)
			}
			return invalidCount(results)
		},
	}
}

func scheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule FILE...",
		Short: "Compute the critical path schedule of activity files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.analyze(cmd.Context(), args)
			if err != nil {
				return err
			}

			if a.cfg.Report.JSON {
				if len(results) == 1 {
					data, err := reporter.New(results[0], a.cfg.Report.BarWidth).JSON()
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
				} else if err := outputJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
				return invalidCount(results)
			}

			w := cmd.OutOrStdout()
			for _, res := range results {
				rpt := reporter.New(res, a.cfg.Report.BarWidth)
				rpt.PrintDiagnostics(w)
				fmt.Fprintln(w)
				if res.Valid {
					rpt.PrintSchedule(w)
				}
				rpt.PrintSummary(w)
				fmt.Fprintln(w)
			}
			return invalidCount(results)
		},
	}
}

func loadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Print the day-by-day resource load of an activity file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.single(cmd.Context(), args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if a.cfg.Report.JSON {
				return outputJSON(cmd.OutOrStdout(), res.Load)
			}
			reporter.New(res, a.cfg.Report.BarWidth).PrintLoad(cmd.OutOrStdout())
			return nil
		},
	}
}

func vizCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz FILE",
		Short: "Print the dependency graph with the critical path highlighted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.single(cmd.Context(), args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rpt := reporter.New(res, a.cfg.Report.BarWidth)
			switch flagFormat {
			case "dot":
				return rpt.WriteDOT(cmd.OutOrStdout())
			case "ascii":
				rpt.PrintWaves(cmd.OutOrStdout())
				return nil
			default:
				return fmt.Errorf("unsupported format %q (use ascii or dot)", flagFormat)
			}
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")

	return cmd
}

// single analyzes one file and fails with its diagnostics when the input
// is invalid.
func (a *app) single(ctx context.Context, path string, errW io.Writer) (*analysis.Result, error) {
	results, err := a.analyze(ctx, []string{path})
	if err != nil {
		return nil, err
	}
	res := results[0]
	if !res.Valid {
		reporter.New(res, a.cfg.Report.BarWidth).PrintDiagnostics(errW)
		return nil, res.Err()
	}
	return res, nil
}

// invalidCount returns an error when any input failed validation.
func invalidCount(results []*analysis.Result) error {
	n := 0
	for _, res := range results {
		if !res.Valid {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	if n == 1 && len(results) == 1 {
		return results[0].Err()
	}
	return fmt.Errorf("%d of %d inputs are invalid", n, len(results))
}

// --- Output helpers ---

func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
