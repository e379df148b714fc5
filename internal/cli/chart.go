package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanstack/pkg/pipeline"
	"github.com/matzehuels/spanstack/pkg/source/csvfile"
)

// chartOpts holds the command-line flags for the chart command.
type chartOpts struct {
	output    string   // output file path (or base path for multiple formats)
	formats   []string // output formats: "json", "csv"
	totals    bool     // include per-day concurrency totals
	compact   bool     // emit compact single-line JSON
	noCache   bool     // disable the layout cache
	refresh   bool     // bypass cached layouts and artifacts
	maxErrors int      // cap on reported row errors
}

// chartCommand creates the chart command: the full CSV-to-layout pipeline.
func (c *CLI) chartCommand() *cobra.Command {
	var formatsStr string
	opts := chartOpts{
		maxErrors: pipeline.DefaultMaxReportedErrors,
	}

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Compute a stacked layout from an interval CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats, nil); err != nil {
				return err
			}
			return c.runChart(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), csv (comma-separated)")
	cmd.Flags().BoolVar(&opts.totals, "totals", false, "include per-day concurrency totals")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "emit compact single-line JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().IntVar(&opts.maxErrors, "max-errors", opts.maxErrors, "maximum row errors to report")

	return cmd
}

// runChart reads the CSV input, runs the pipeline, and writes one artifact
// file per requested format.
func (c *CLI) runChart(ctx context.Context, input string, opts *chartOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	rows, err := csvfile.ReadFile(input)
	if err != nil {
		return reportReadError(input, err)
	}
	logger.Debugf("Read %d data rows from %s", len(rows), input)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Computing layout...")
	spin.Start()

	result, err := runner.Execute(ctx, rows, pipeline.Options{
		Formats:           opts.formats,
		Totals:            opts.totals,
		CompactJSON:       opts.compact,
		Refresh:           opts.refresh,
		MaxReportedErrors: opts.maxErrors,
		Logger:            logger,
	})
	if err != nil {
		spin.Stop()
		if spin.Cancelled() {
			return ctx.Err()
		}
		return reportPipelineError(err)
	}
	spin.Stop()

	base := outputBase(opts.output, input)
	for _, format := range opts.formats {
		path := artifactPath(base, opts.output, format, len(opts.formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.IntervalCount, result.Stats.KeyCount, result.Stats.DayCount, result.CacheInfo.LayoutHit)
	prog.done(fmt.Sprintf("Stacked %d intervals across %d days", result.Stats.IntervalCount, result.Stats.DayCount))
	return nil
}

// reportReadError prints a readable report for input problems and returns
// a terse error for the exit status.
func reportReadError(input string, err error) error {
	var he *csvfile.HeaderError
	if stderrors.As(err, &he) {
		printError("%s has an invalid header", input)
		for _, col := range he.Missing {
			printDetail("missing column: %s", col)
		}
		return fmt.Errorf("invalid header")
	}
	return err
}

// reportPipelineError prints validation failures row by row; other errors
// pass through untouched.
func reportPipelineError(err error) error {
	var vf *pipeline.ValidationFailure
	if !stderrors.As(err, &vf) {
		return err
	}

	printError("Input rejected: %d invalid row(s)", vf.Total)
	for _, re := range vf.Errors {
		printRowError(re.Row, re.Message)
	}
	if vf.Truncated() {
		printDetail("... and %d more (raise --max-errors to see all)", vf.Total-len(vf.Errors))
	}
	return fmt.Errorf("%d invalid rows", vf.Total)
}

// outputBase derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped too.
func outputBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// artifactPath builds the output path for one format. A single format with an
// explicit --output keeps the path exactly as given.
func artifactPath(base, output, format string, formatCount int) string {
	if output != "" && formatCount == 1 && strings.HasSuffix(output, "."+format) {
		return output
	}
	return base + "." + format
}
