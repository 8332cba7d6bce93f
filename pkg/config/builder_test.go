package config

import "time"

// ConfigBuilder provides a fluent API for building test configurations.
type ConfigBuilder struct {
	cfg *Config
}

// NewTestConfig creates a builder populated with default values.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: Default()}
}

// Build returns the built configuration.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

func (b *ConfigBuilder) WithVariant(variant string) *ConfigBuilder {
	b.cfg.Processing.Variant = variant
	return b
}

func (b *ConfigBuilder) WithWindows(correlation, staleness time.Duration) *ConfigBuilder {
	b.cfg.Processing.CorrelationWindow = correlation
	b.cfg.Processing.StalenessWindow = staleness
	return b
}

func (b *ConfigBuilder) WithOutput(format, sort string, precision int) *ConfigBuilder {
	b.cfg.Output.Format = format
	b.cfg.Output.Sort = sort
	b.cfg.Output.Precision = precision
	return b
}

func (b *ConfigBuilder) WithOutputPath(path string) *ConfigBuilder {
	b.cfg.Output.Path = path
	return b
}

func (b *ConfigBuilder) WithRates(completion, cacheWrite, cacheRead float64) *ConfigBuilder {
	b.cfg.Rates = RatesConfig{
		CompletionPerMillion: completion,
		CacheWritePerMillion: cacheWrite,
		CacheReadPerMillion:  cacheRead,
	}
	return b
}

func (b *ConfigBuilder) WithSchedule(schedule string) *ConfigBuilder {
	b.cfg.Watch.Schedule = schedule
	return b
}

func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

func (b *ConfigBuilder) WithMetrics(enabled bool, textfile string) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	b.cfg.Telemetry.Metrics.TextfilePath = textfile
	return b
}

func (b *ConfigBuilder) WithTracing(enabled bool, sampler, endpoint string) *ConfigBuilder {
	b.cfg.Telemetry.Tracing.Enabled = enabled
	b.cfg.Telemetry.Tracing.Sampler = sampler
	b.cfg.Telemetry.Tracing.Endpoint = endpoint
	return b
}
