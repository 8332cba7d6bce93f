package main

import (
	"context"

	"github.com/spf13/cobra"

	"mercator-hq/costlens/pkg/cli"
	"mercator-hq/costlens/pkg/export"
	"mercator-hq/costlens/pkg/report"
)

var summaryFlags struct {
	variant      string
	includeStale bool
	format       string
	output       string
}

var summaryCmd = &cobra.Command{
	Use:   "summary LOG",
	Short: "Summarize costs by event subtype",
	Long: `Aggregate cost rows by event subtype.

For each subtype the summary reports the number of rows, the summed token
counts and costs, and their averages per row. Rows with subtype "null", rows
whose event cost is zero and, unless --include-stale is given, rows marked
"cache miss: outdated" are left out.

Examples:
  costlens summary session.json
  costlens summary session.json --include-stale --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryFlags.variant, "variant", "", "correlation variant: forward, backward (deprecated)")
	summaryCmd.Flags().BoolVar(&summaryFlags.includeStale, "include-stale", false, "keep rows marked as outdated cache misses")
	summaryCmd.Flags().StringVar(&summaryFlags.format, "format", "", "output format: text, json, csv")
	summaryCmd.Flags().StringVarP(&summaryFlags.output, "output", "o", "", "output file (default stdout)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	format, err := cli.ResolveFormat(summaryFlags.format, env.cfg.Output.Format)
	if err != nil {
		return cli.NewCommandError("summary", err)
	}

	ctx, span := env.startRun(cmd.Context(), cmd, args[0])
	if err := endRun(span, env.summaryReport(ctx, cmd, args[0], format)); err != nil {
		return cli.NewCommandError("summary", err)
	}
	return nil
}

func (env *runtimeEnv) summaryReport(ctx context.Context, cmd *cobra.Command, logPath string, format export.Format) error {
	_, result, err := env.process(ctx, logPath, summaryFlags.variant)
	if err != nil {
		return err
	}

	summary := report.Summarize(result.Rows, report.Options{
		IncludeStale: summaryFlags.includeStale || env.cfg.Summary.IncludeStale,
	})
	env.logger.DebugContext(ctx, "summarized rows",
		"groups", len(summary.Groups),
		"kept", summary.Kept,
		"excluded", summary.Excluded,
	)

	table := export.SummaryTable(summary, env.precision())
	return env.writeTable(ctx, cmd, table, format, env.outputPath(summaryFlags.output))
}
