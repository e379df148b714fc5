package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanstack/pkg/interval"
	"github.com/matzehuels/spanstack/pkg/occupancy"
	"github.com/matzehuels/spanstack/pkg/pipeline"
	"github.com/matzehuels/spanstack/pkg/source/csvfile"
)

// checkCommand creates the check command: validation without output files.
func (c *CLI) checkCommand() *cobra.Command {
	var maxErrors int

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate an interval CSV and report every broken row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], maxErrors)
		},
	}

	cmd.Flags().IntVar(&maxErrors, "max-errors", pipeline.DefaultMaxReportedErrors, "maximum row errors to report")

	return cmd
}

// runCheck validates the input and prints a summary of what a chart run
// would work with. Nothing is cached and nothing is written.
func (c *CLI) runCheck(ctx context.Context, input string, maxErrors int) error {
	logger := loggerFromContext(ctx)

	rows, err := csvfile.ReadFile(input)
	if err != nil {
		return reportReadError(input, err)
	}
	logger.Debugf("Read %d data rows from %s", len(rows), input)

	runner := pipeline.NewRunner(nil, nil, logger)
	intervals, err := runner.Validate(rows, pipeline.Options{
		MaxReportedErrors: maxErrors,
		Logger:            logger,
	})
	if err != nil {
		return reportPipelineError(err)
	}

	grid, err := occupancy.Build(intervals)
	if err != nil {
		return err
	}

	printSuccess("%s is valid", input)
	printKeyValue("intervals", fmt.Sprintf("%d", len(intervals)))
	printKeyValue("keys", fmt.Sprintf("%d", len(grid.Keys)))
	printKeyValue("days", fmt.Sprintf("%d", grid.DayCount()))
	printKeyValue("span", fmt.Sprintf("%s %s %s",
		grid.MinStart.Format(interval.DateFormat), iconArrow, grid.MaxEnd.Format(interval.DateFormat)))
	printNewline()
	printNextStep("Build the layout", fmt.Sprintf("spanstack chart %s", input))
	return nil
}
