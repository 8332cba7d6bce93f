package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "costlens.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
rates:
  completion_per_million: 10
  cache_read_per_million: 0.5

processing:
  variant: backward
  correlation_window: 10m
  staleness_window: 90s
  message_width: 40

output:
  format: csv
  precision: 4
  sort: event_cost

watch:
  schedule: "*/5 * * * *"

telemetry:
  logging:
    level: debug
    format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Rates.CompletionPerMillion != 10 {
		t.Errorf("expected completion rate 10, got %v", cfg.Rates.CompletionPerMillion)
	}
	if cfg.Rates.CacheWritePerMillion != DefaultCacheWritePerMillion {
		t.Errorf("expected default cache write rate, got %v", cfg.Rates.CacheWritePerMillion)
	}
	if cfg.Rates.CacheReadPerMillion != 0.5 {
		t.Errorf("expected cache read rate 0.5, got %v", cfg.Rates.CacheReadPerMillion)
	}
	if cfg.Processing.Variant != "backward" {
		t.Errorf("expected variant backward, got %q", cfg.Processing.Variant)
	}
	if cfg.Processing.CorrelationWindow != 10*time.Minute {
		t.Errorf("expected correlation window 10m, got %v", cfg.Processing.CorrelationWindow)
	}
	if cfg.Processing.StalenessWindow != 90*time.Second {
		t.Errorf("expected staleness window 90s, got %v", cfg.Processing.StalenessWindow)
	}
	if cfg.Processing.MessageWidth != 40 {
		t.Errorf("expected message width 40, got %d", cfg.Processing.MessageWidth)
	}
	if cfg.Output.Format != "csv" || cfg.Output.Precision != 4 || cfg.Output.Sort != "event_cost" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Watch.Schedule != "*/5 * * * *" {
		t.Errorf("expected schedule, got %q", cfg.Watch.Schedule)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "processing: [unterminated",
			wantErr: "failed to parse",
		},
		{
			name: "invalid variant",
			content: `
processing:
  variant: sideways
`,
			wantErr: "processing.variant",
		},
		{
			name: "negative rate",
			content: `
rates:
  cache_read_per_million: -1
`,
			wantErr: "rates.cache_read_per_million",
		},
		{
			name: "bad duration",
			content: `
processing:
  staleness_window: soon
`,
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
processing:
  variant: backward
output:
  format: json
`)

	t.Setenv("COSTLENS_PROCESSING_VARIANT", "forward")
	t.Setenv("COSTLENS_PROCESSING_STALENESS_WINDOW", "2m")
	t.Setenv("COSTLENS_PROCESSING_REDACT_MESSAGES", "true")
	t.Setenv("COSTLENS_RATES_COMPLETION_PER_MILLION", "12.5")
	t.Setenv("COSTLENS_OUTPUT_PRECISION", "6")
	t.Setenv("COSTLENS_OUTPUT_SORT", "total_cost")
	t.Setenv("COSTLENS_SUMMARY_INCLUDE_STALE", "1")
	t.Setenv("COSTLENS_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Processing.Variant != "forward" {
		t.Errorf("expected env variant forward, got %q", cfg.Processing.Variant)
	}
	if cfg.Processing.StalenessWindow != 2*time.Minute {
		t.Errorf("expected staleness window 2m, got %v", cfg.Processing.StalenessWindow)
	}
	if !cfg.Processing.RedactMessages {
		t.Error("expected redact_messages from env")
	}
	if cfg.Rates.CompletionPerMillion != 12.5 {
		t.Errorf("expected completion rate 12.5, got %v", cfg.Rates.CompletionPerMillion)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected file format json, got %q", cfg.Output.Format)
	}
	if cfg.Output.Precision != 6 || cfg.Output.Sort != "total_cost" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
	if !cfg.Summary.IncludeStale {
		t.Error("expected include_stale from env")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_EmptyPath(t *testing.T) {
	t.Setenv("COSTLENS_OUTPUT_FORMAT", "csv")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("expected format csv, got %q", cfg.Output.Format)
	}
	if cfg.Processing.Variant != DefaultVariant {
		t.Errorf("expected default variant, got %q", cfg.Processing.Variant)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad integer", "COSTLENS_OUTPUT_PRECISION", "two"},
		{"bad float", "COSTLENS_RATES_CACHE_READ_PER_MILLION", "cheap"},
		{"bad boolean", "COSTLENS_SUMMARY_INCLUDE_STALE", "maybe"},
		{"bad duration", "COSTLENS_WATCH_DEBOUNCE", "later"},
		{"invalid after override", "COSTLENS_OUTPUT_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfigWithEnvOverrides("")
			if err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}

			var valErr ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if cfg.Output.Format != DefaultOutputFormat {
		t.Errorf("expected default format, got %q", cfg.Output.Format)
	}

	path := writeConfig(t, "output:\n  format: json\n")
	cfg, err = LoadOptional(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected format json, got %q", cfg.Output.Format)
	}
}
