package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/costlens/pkg/cli"
	"mercator-hq/costlens/pkg/export"
	"mercator-hq/costlens/pkg/processor"
	"mercator-hq/costlens/pkg/report"
	"mercator-hq/costlens/pkg/telemetry/tracing"
)

var processFlags struct {
	variant string
	sort    string
	format  string
	output  string
}

var processCmd = &cobra.Command{
	Use:   "process LOG",
	Short: "Print the per-event cost table",
	Long: `Convert an event log into cost rows, one per billed event.

LOG is a JSON array of events, or "-" to read standard input.

Every event with a cause, and every condensation action, is matched with a
token-usage record. With the forward variant (default) completion tokens come
from the event itself and cache tokens from the next usage record within the
correlation window. The backward variant reads all counts from the event and
is deprecated.

Rows whose previous usage record is older than the staleness window are marked
"cache miss: outdated".

Examples:
  # Cost table on stdout
  costlens process session.json

  # Sorted by total cost, as JSON
  costlens process session.json --sort total_cost --format json

  # Append the run to a SQLite artifact
  costlens process session.json --format sqlite -o costs.db`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processFlags.variant, "variant", "", "correlation variant: forward, backward (deprecated)")
	processCmd.Flags().StringVar(&processFlags.sort, "sort", "", "sort rows descending by: event_cost, total_cost, completion_tokens, ...")
	processCmd.Flags().StringVar(&processFlags.format, "format", "", "output format: text, json, csv, sqlite")
	processCmd.Flags().StringVarP(&processFlags.output, "output", "o", "", "output file (default stdout)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	opts, err := env.rowOptions(processFlags.sort, processFlags.format, processFlags.output)
	if err != nil {
		return cli.NewCommandError("process", err)
	}

	ctx, span := env.startRun(cmd.Context(), cmd, args[0])
	_, err = env.processReport(ctx, cmd, args[0], processFlags.variant, opts)
	if err := endRun(span, err); err != nil {
		return cli.NewCommandError("process", err)
	}
	return nil
}

// processReport builds and writes one cost table.
func (env *runtimeEnv) processReport(ctx context.Context, cmd *cobra.Command, logPath, variant string, opts rowOptions) (*processor.Result, error) {
	_, result, err := env.process(ctx, logPath, variant)
	if err != nil {
		return nil, err
	}
	if err := env.emitRows(ctx, cmd, logPath, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// rowOptions controls how cost rows are written.
type rowOptions struct {
	sort   report.SortKey
	format export.Format
	path   string
}

// rowOptions resolves flags against configuration.
func (env *runtimeEnv) rowOptions(sortFlag, formatFlag, outputFlag string) (rowOptions, error) {
	if sortFlag == "" {
		sortFlag = env.cfg.Output.Sort
	}
	key, err := report.ParseSortKey(sortFlag)
	if err != nil {
		return rowOptions{}, err
	}

	format, err := cli.ResolveFormat(formatFlag, env.cfg.Output.Format)
	if err != nil {
		return rowOptions{}, err
	}

	opts := rowOptions{sort: key, format: format, path: env.outputPath(outputFlag)}
	if format == export.FormatSQLite && opts.path == "" {
		return rowOptions{}, fmt.Errorf("sqlite output requires an output path (-o or output.path)")
	}
	return opts, nil
}

// emitRows writes the rows of result. SQLite output stores the whole run.
func (env *runtimeEnv) emitRows(ctx context.Context, cmd *cobra.Command, logPath string, result *processor.Result, opts rowOptions) error {
	if opts.format == export.FormatSQLite {
		return env.storeRun(ctx, cmd, logPath, result, opts.path)
	}

	rows := report.SortRows(result.Rows, opts.sort)
	return env.writeTable(ctx, cmd, export.RowsTable(rows, env.precision()), opts.format, opts.path)
}

// storeRun appends result to the SQLite artifact at path.
func (env *runtimeEnv) storeRun(ctx context.Context, cmd *cobra.Command, logPath string, result *processor.Result, path string) (err error) {
	ctx, span := env.tracer.Start(ctx, "costlens.export",
		trace.WithAttributes(attribute.String(tracing.AttrFormat, string(export.FormatSQLite))))
	defer func() {
		tracing.SetStatus(span, err)
		span.End()
	}()

	writer, err := export.NewSQLiteWriter(export.SQLiteConfig{Path: path}, env.logger)
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := writer.WriteRun(ctx, logPath, result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Stored run %s (%d rows) in %s\n", result.RunID, len(result.Rows), path)
	return nil
}
