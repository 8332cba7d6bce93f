package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/costlens/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration with environment overrides and check every field.

Without --config the default costlens.yaml is checked when it exists, and the
built-in defaults otherwise.

Examples:
  costlens validate
  costlens validate --config /etc/costlens/costlens.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", config.Source())
	fmt.Fprintf(out, "  Variant:    %s\n", cfg.Processing.Variant)
	fmt.Fprintf(out, "  Rates:      completion $%.2f, cache write $%.2f, cache read $%.2f per 1M tokens\n",
		cfg.Rates.CompletionPerMillion, cfg.Rates.CacheWritePerMillion, cfg.Rates.CacheReadPerMillion)
	fmt.Fprintf(out, "  Windows:    correlation %s, staleness %s\n",
		cfg.Processing.CorrelationWindow, cfg.Processing.StalenessWindow)
	fmt.Fprintf(out, "  Output:     %s (precision %d)\n", cfg.Output.Format, cfg.Output.Precision)
	if cfg.Watch.Schedule != "" {
		fmt.Fprintf(out, "  Schedule:   %s\n", cfg.Watch.Schedule)
	}
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics:    %s\n", cfg.Telemetry.Metrics.TextfilePath)
	}
	return nil
}
