package watch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Trigger names what caused a run.
type Trigger string

// Run triggers.
const (
	TriggerInitial  Trigger = "initial"
	TriggerFile     Trigger = "file"
	TriggerConfig   Trigger = "config"
	TriggerSchedule Trigger = "schedule"
)

// RunFunc produces one report.
type RunFunc func(ctx context.Context, trigger Trigger) error

// Runner serializes runs. Triggers arriving while a run is in progress wait
// for it to finish.
type Runner struct {
	run    RunFunc
	logger *slog.Logger

	mu       sync.Mutex
	runs     atomic.Int64
	failures atomic.Int64
}

// NewRunner creates a runner for fn.
func NewRunner(fn RunFunc, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		run:    fn,
		logger: logger.With("component", "watch.runner"),
	}
}

// Run executes one run. Errors are logged and returned.
func (r *Runner) Run(ctx context.Context, trigger Trigger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	r.runs.Add(1)

	if err := r.run(ctx, trigger); err != nil {
		r.failures.Add(1)
		r.logger.ErrorContext(ctx, "report run failed",
			"trigger", string(trigger),
			"error", err,
		)
		return err
	}

	r.logger.DebugContext(ctx, "report run completed",
		"trigger", string(trigger),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Runs returns the number of started runs.
func (r *Runner) Runs() int64 {
	return r.runs.Load()
}

// Failures returns the number of failed runs.
func (r *Runner) Failures() int64 {
	return r.failures.Load()
}
