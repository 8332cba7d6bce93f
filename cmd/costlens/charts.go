package main

import (
	"context"

	"github.com/spf13/cobra"

	"mercator-hq/costlens/pkg/charts"
	"mercator-hq/costlens/pkg/cli"
	"mercator-hq/costlens/pkg/export"
	"mercator-hq/costlens/pkg/report"
)

var chartsFlags struct {
	variant string
	output  string
}

var chartsCmd = &cobra.Command{
	Use:   "charts LOG",
	Short: "Write chart datasets as JSON",
	Long: `Compute the series behind the token and cost charts of an event log.

The JSON document holds per-event token and cost stacks ordered by event id,
the token and cost distributions in percent, and the event cost by subtype.

Examples:
  costlens charts session.json
  costlens charts session.json -o charts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCharts,
}

func init() {
	rootCmd.AddCommand(chartsCmd)

	chartsCmd.Flags().StringVar(&chartsFlags.variant, "variant", "", "correlation variant: forward, backward (deprecated)")
	chartsCmd.Flags().StringVarP(&chartsFlags.output, "output", "o", "", "output file (default stdout)")
}

func runCharts(cmd *cobra.Command, args []string) error {
	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, span := env.startRun(cmd.Context(), cmd, args[0])
	if err := endRun(span, env.chartsReport(ctx, cmd, args[0])); err != nil {
		return cli.NewCommandError("charts", err)
	}
	return nil
}

func (env *runtimeEnv) chartsReport(ctx context.Context, cmd *cobra.Command, logPath string) error {
	evs, result, err := env.process(ctx, logPath, chartsFlags.variant)
	if err != nil {
		return err
	}

	dataset := charts.Build(evs, result.Rows, env.calculator(), report.Options{
		IncludeStale: env.cfg.Summary.IncludeStale,
	})

	table := &export.Table{Name: "charts", Records: dataset}
	return env.writeTable(ctx, cmd, table, export.FormatJSON, env.outputPath(chartsFlags.output))
}
