package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"mercator-hq/costlens/pkg/cli"
	"mercator-hq/costlens/pkg/config"
	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/processor"
	"mercator-hq/costlens/pkg/watch"
)

var watchFlags struct {
	variant  string
	sort     string
	format   string
	output   string
	schedule string
}

var watchCmd = &cobra.Command{
	Use:   "watch LOG",
	Short: "Re-run the cost table when the log changes",
	Long: `Print the cost table of LOG, then print it again whenever the file changes.

Changes are debounced by watch.debounce. With --schedule (or watch.schedule)
the table is also rebuilt on a cron schedule. When --config names a file,
edits to it are reloaded; an invalid edit keeps the previous configuration.

Runs never overlap. The command stops on SIGINT or SIGTERM.

Examples:
  # Rebuild on every change
  costlens watch session.json

  # Also rebuild every five minutes, storing each run
  costlens watch session.json --schedule "*/5 * * * *" --format sqlite -o costs.db`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.variant, "variant", "", "correlation variant: forward, backward (deprecated)")
	watchCmd.Flags().StringVar(&watchFlags.sort, "sort", "", "sort rows descending by: event_cost, total_cost, completion_tokens, ...")
	watchCmd.Flags().StringVar(&watchFlags.format, "format", "", "output format: text, json, csv, sqlite")
	watchCmd.Flags().StringVarP(&watchFlags.output, "output", "o", "", "output file (default stdout)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic re-runs (overrides watch.schedule)")
}

// watchState holds the runtime of a watch session. Configuration reloads
// replace the runtime but keep the metrics collector and tracer.
type watchState struct {
	mu  sync.Mutex
	env *runtimeEnv
}

func (s *watchState) current() *runtimeEnv {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env
}

func (s *watchState) replace(env *runtimeEnv) {
	s.mu.Lock()
	defer s.mu.Unlock()
	env.metrics = s.env.metrics
	env.tracer = s.env.tracer
	s.env = env
}

func runWatch(cmd *cobra.Command, args []string) error {
	logPath := args[0]
	if logPath == events.StdinPath {
		return cli.NewCommandError("watch", fmt.Errorf("standard input cannot be watched"))
	}

	env, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer env.close()
	if _, err := env.rowOptions(watchFlags.sort, watchFlags.format, watchFlags.output); err != nil {
		return cli.NewCommandError("watch", err)
	}

	schedule := watchFlags.schedule
	if schedule == "" {
		schedule = env.cfg.Watch.Schedule
	}

	ctx, cancel := cli.SetupSignalHandler(cmd.Context())
	defer cancel()

	state := &watchState{env: env}
	reporter := cli.NewRunReporter(cmd.ErrOrStderr())

	svc := watch.NewService(watch.Config{
		LogPath:    logPath,
		ConfigPath: cfgFile,
		Debounce:   env.cfg.Watch.Debounce,
		Schedule:   schedule,
	}, func(ctx context.Context, trigger watch.Trigger) error {
		result, err := watchRun(ctx, cmd, state.current(), logPath)
		if err != nil {
			reporter.Error(string(trigger), err)
			return err
		}
		reporter.Done(string(trigger), len(result.Rows), result.Duration)
		return nil
	}, env.logger)

	if cfgFile != "" {
		svc.OnConfigChange = func(ctx context.Context) error {
			if err := config.ReloadConfig(cfgFile); err != nil {
				return err
			}
			cfg := config.GetConfig()
			applyGlobalFlags(cfg)
			next, err := runtimeFor(cmd, cfg)
			if err != nil {
				return err
			}
			if _, err := next.rowOptions(watchFlags.sort, watchFlags.format, watchFlags.output); err != nil {
				return err
			}
			state.replace(next)
			next.logger.InfoContext(ctx, "configuration reloaded", "path", cfgFile)
			return nil
		}
	}

	env.logger.InfoContext(ctx, "watching event log", "path", logPath, "schedule", schedule)
	if err := svc.Run(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// watchRun produces one cost table as its own trace.
func watchRun(ctx context.Context, cmd *cobra.Command, env *runtimeEnv, logPath string) (*processor.Result, error) {
	opts, err := env.rowOptions(watchFlags.sort, watchFlags.format, watchFlags.output)
	if err != nil {
		return nil, err
	}

	ctx, span := env.startRun(ctx, cmd, logPath)
	result, err := env.processReport(ctx, cmd, logPath, watchFlags.variant, opts)
	return result, endRun(span, err)
}
