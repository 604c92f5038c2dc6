// Package commands implements the lakerunner CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lakerunner/internal/config"
	"github.com/leapstack-labs/lakerunner/internal/planner"
	"github.com/leapstack-labs/lakerunner/pkg/acceptance"
	"github.com/leapstack-labs/lakerunner/pkg/engine/local"
)

// timePrecision rounds per-case durations in the report table.
const timePrecision = time.Millisecond

// VerifyOptions holds options for the verify command.
type VerifyOptions struct {
	SuiteDir string // Directory of conformance fixtures
	Format   string // Output format: table, json
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	opts := &VerifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify [suite-dir]",
		Short: "Verify the engine against a conformance suite",
		Long: `Run every conformance fixture under a suite directory through the
local engine and compare the scanned data against the golden datasets.

Skip-listed fixtures (configured in lakerunner.yaml, with built-in
defaults for known divergences) are reported as skipped and never read.`,
		Example: `  # Verify the suite in ./dat
  lakerunner verify ./dat

  # Machine-readable report
  lakerunner verify ./dat --output-format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.SuiteDir = args[0]
			}
			return runVerify(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *VerifyOptions) error {
	cfgFile, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	if opts.SuiteDir != "" {
		cfg.SuiteDir = opts.SuiteDir
	}
	if cfg.SuiteDir == "" {
		return fmt.Errorf("no suite directory: pass one as an argument or set suite_dir")
	}
	if opts.Format != "" {
		cfg.OutputFormat = opts.Format
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	runID := uuid.NewString()
	logger.Info("starting conformance run", "run_id", runID, "suite", cfg.SuiteDir)

	eng := local.New(logger)
	pl := planner.NewDirectory[local.JSONReadContext, local.ParquetReadContext](logger)
	oracle := acceptance.NewOracle(eng, pl, acceptance.OracleConfig{
		Skips:         cfg.SkipEntries(),
		SchemaCompare: acceptance.DefaultSchemaCompareOptions(),
		Logger:        logger,
	})

	results, err := oracle.VerifySuite(cmd.Context(), cfg.SuiteDir)
	if err != nil {
		return err
	}

	if cfg.OutputFormat == "json" {
		if err := renderResultsJSON(cmd.OutOrStdout(), runID, results); err != nil {
			return err
		}
	} else {
		renderResultsTable(cmd.OutOrStdout(), results)
	}

	failed := 0
	for _, res := range results {
		if res.Status == acceptance.StatusFail {
			failed++
		}
	}
	logger.Info("conformance run finished", "run_id", runID, "cases", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d test cases failed", failed, len(results))
	}
	return nil
}

func renderResultsTable(w io.Writer, results []acceptance.CaseResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Case", "Status", "Duration", "Detail"})
	for _, res := range results {
		detail := res.Case.SkipReason
		if res.Err != nil {
			detail = res.Err.Error()
		}
		t.AppendRow(table.Row{res.Case.Name(), string(res.Status), res.Duration.Round(timePrecision), detail})
	}
	t.Render()
	fmt.Fprintf(w, "(%d cases)\n", len(results))
}

func renderResultsJSON(w io.Writer, runID string, results []acceptance.CaseResult) error {
	type caseReport struct {
		Case     string `json:"case"`
		Status   string `json:"status"`
		Duration string `json:"duration"`
		Detail   string `json:"detail,omitempty"`
	}
	report := struct {
		RunID string       `json:"run_id"`
		Cases []caseReport `json:"cases"`
	}{RunID: runID}
	for _, res := range results {
		cr := caseReport{
			Case:     res.Case.Name(),
			Status:   string(res.Status),
			Duration: res.Duration.String(),
			Detail:   res.Case.SkipReason,
		}
		if res.Err != nil {
			cr.Detail = res.Err.Error()
		}
		report.Cases = append(report.Cases, cr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
