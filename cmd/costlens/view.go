package main

import (
	"context"

	"github.com/spf13/cobra"

	"mercator-hq/costlens/pkg/cli"
	"mercator-hq/costlens/pkg/export"
	"mercator-hq/costlens/pkg/views"
)

var viewFlags struct {
	format string
	output string
}

var viewCmd = &cobra.Command{
	Use:   "view all|completion|input|top LOG",
	Short: "Print one of the per-event views",
	Long: `Print a per-event view computed directly from the usage metadata.

Views:
  all         every event with its tool-call usage and total cost
  completion  events with accumulated completion tokens, most tokens first
  input       observations that created cache entries, most tokens first
  top         the 10 events with the highest completion and cache-write cost

Examples:
  costlens view top session.json
  costlens view completion session.json --format csv`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: viewNames(),
	RunE:      runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewFlags.format, "format", "", "output format: text, json, csv")
	viewCmd.Flags().StringVarP(&viewFlags.output, "output", "o", "", "output file (default stdout)")
}

func viewNames() []string {
	names := make([]string, 0, len(views.Names))
	for _, n := range views.Names {
		names = append(names, string(n))
	}
	return names
}

func runView(cmd *cobra.Command, args []string) error {
	name, err := views.ParseName(args[0])
	if err != nil {
		return cli.NewCommandError("view", err)
	}

	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	format, err := cli.ResolveFormat(viewFlags.format, env.cfg.Output.Format)
	if err != nil {
		return cli.NewCommandError("view", err)
	}

	ctx, span := env.startRun(cmd.Context(), cmd, args[1])
	if err := endRun(span, env.viewReport(ctx, cmd, name, args[1], format)); err != nil {
		return cli.NewCommandError("view", err)
	}
	return nil
}

func (env *runtimeEnv) viewReport(ctx context.Context, cmd *cobra.Command, name views.Name, logPath string, format export.Format) error {
	evs, err := env.load(ctx, logPath)
	if err != nil {
		return err
	}

	table, err := views.Render(name, evs, env.calculator())
	if err != nil {
		return err
	}
	env.logger.DebugContext(ctx, "rendered view", "view", string(name), "lines", table.Len())

	return env.writeTable(ctx, cmd, table, format, env.outputPath(viewFlags.output))
}
