package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Rates.CompletionPerMillion != 15.00 {
		t.Errorf("expected completion rate 15.00, got %v", cfg.Rates.CompletionPerMillion)
	}
	if cfg.Rates.CacheWritePerMillion != 3.75 {
		t.Errorf("expected cache write rate 3.75, got %v", cfg.Rates.CacheWritePerMillion)
	}
	if cfg.Rates.CacheReadPerMillion != 0.30 {
		t.Errorf("expected cache read rate 0.30, got %v", cfg.Rates.CacheReadPerMillion)
	}
	if cfg.Processing.Variant != "forward" {
		t.Errorf("expected variant forward, got %q", cfg.Processing.Variant)
	}
	if cfg.Processing.CorrelationWindow != 5*time.Minute {
		t.Errorf("expected correlation window 5m, got %v", cfg.Processing.CorrelationWindow)
	}
	if cfg.Processing.StalenessWindow != 5*time.Minute {
		t.Errorf("expected staleness window 5m, got %v", cfg.Processing.StalenessWindow)
	}
	if cfg.Processing.MessageWidth != 60 {
		t.Errorf("expected message width 60, got %d", cfg.Processing.MessageWidth)
	}
	if cfg.Output.Format != "text" || cfg.Output.Precision != 2 {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Watch.Debounce != DefaultWatchDebounce {
		t.Errorf("expected debounce %v, got %v", DefaultWatchDebounce, cfg.Watch.Debounce)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Telemetry.Logging)
	}
	if cfg.Telemetry.Metrics.Namespace != "costlens" {
		t.Errorf("expected namespace costlens, got %q", cfg.Telemetry.Metrics.Namespace)
	}
	if len(cfg.Telemetry.Metrics.RowCostBuckets) != len(DefaultRowCostBuckets) {
		t.Errorf("expected %d buckets, got %d", len(DefaultRowCostBuckets), len(cfg.Telemetry.Metrics.RowCostBuckets))
	}
	tr := cfg.Telemetry.Tracing
	if tr.Enabled || tr.Sampler != "always" || tr.Timeout != 10*time.Second || tr.ServiceName != "costlens" {
		t.Errorf("unexpected tracing defaults: %+v", tr)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Processing: ProcessingConfig{Variant: "backward", MessageWidth: 20},
		Output:     OutputConfig{Format: "json", Precision: 6},
	}
	ApplyDefaults(cfg)

	if cfg.Processing.Variant != "backward" {
		t.Errorf("variant overwritten: %q", cfg.Processing.Variant)
	}
	if cfg.Processing.MessageWidth != 20 {
		t.Errorf("message width overwritten: %d", cfg.Processing.MessageWidth)
	}
	if cfg.Output.Format != "json" || cfg.Output.Precision != 6 {
		t.Errorf("output overwritten: %+v", cfg.Output)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.Metrics.RowCostBuckets[0] = 0.5
	ApplyDefaults(cfg)

	if cfg.Telemetry.Metrics.RowCostBuckets[0] != 0.5 {
		t.Error("ApplyDefaults replaced configured buckets")
	}
	if DefaultRowCostBuckets[0] == 0.5 {
		t.Error("Default() shares the package bucket slice")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default configuration is invalid: %v", err)
	}
}
