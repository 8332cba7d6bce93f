package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"
)

// Config contains configuration for a watch service.
type Config struct {
	// LogPath is the event log to watch.
	LogPath string

	// ConfigPath is an optional configuration file to watch.
	ConfigPath string

	// Debounce is the quiet time after a change before a run.
	Debounce time.Duration

	// Schedule is an optional cron expression for periodic runs.
	Schedule string
}

// Service runs a report once and then again on every change or tick.
type Service struct {
	config Config
	runner *Runner
	logger *slog.Logger

	// OnConfigChange is called before the run that follows a change of
	// ConfigPath. An error skips that run.
	OnConfigChange func(ctx context.Context) error
}

// NewService creates a watch service.
func NewService(cfg Config, fn RunFunc, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config: cfg,
		runner: NewRunner(fn, logger),
		logger: logger.With("component", "watch"),
	}
}

// Runner returns the service runner.
func (s *Service) Runner() *Runner {
	return s.runner
}

// Run performs the initial run and then blocks until ctx is cancelled.
// A failing initial run does not stop the service.
func (s *Service) Run(ctx context.Context) error {
	_ = s.runner.Run(ctx, TriggerInitial)

	paths := []string{s.config.LogPath}
	if s.config.ConfigPath != "" {
		paths = append(paths, s.config.ConfigPath)
	}

	watcher, err := NewFileWatcher(&FileWatcherConfig{
		Paths:            paths,
		DebounceInterval: s.config.Debounce,
	}, s.logger)
	if err != nil {
		return err
	}

	scheduler := NewScheduler(s.logger)
	if err := scheduler.Start(ctx, s.config.Schedule, func(ctx context.Context) {
		_ = s.runner.Run(ctx, TriggerSchedule)
	}); err != nil {
		return err
	}
	defer scheduler.Stop()

	return watcher.Watch(ctx, func(changed []string) error {
		return s.onChange(ctx, changed)
	})
}

// onChange reloads configuration when needed and re-runs the report.
func (s *Service) onChange(ctx context.Context, changed []string) error {
	trigger := TriggerFile
	if s.config.ConfigPath != "" && contains(changed, s.config.ConfigPath) {
		trigger = TriggerConfig
		if s.OnConfigChange != nil {
			if err := s.OnConfigChange(ctx); err != nil {
				s.logger.ErrorContext(ctx, "configuration reload failed, keeping previous configuration", "error", err)
				return err
			}
		}
	}
	return s.runner.Run(ctx, trigger)
}

func contains(paths []string, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if p == abs {
			return true
		}
	}
	return false
}
