package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/costlens/pkg/cli"
)

var (
	// Global flags
	cfgFile  string
	verbose  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "costlens",
	Short: "costlens - cost reports for AI-agent event logs",
	Long: `costlens reads the JSON event log of an AI-agent runtime and reports what
the language-model calls behind it cost.

Each event that was caused by another (and every condensation action) is
matched with the nearest token-usage record, priced with the configured
rates and flagged when its cache was likely cold.

Reports:
  - process: per-event cost table
  - summary: totals and averages by event subtype
  - charts:  token and cost distribution datasets (JSON)
  - view:    all, completion, input and top-cost views
  - watch:   re-run a report when the log changes`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default \"costlens.yaml\" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
