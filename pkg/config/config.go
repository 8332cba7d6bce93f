package config

import "time"

// Config is the root configuration structure for costlens.
type Config struct {
	// Rates is the token price table.
	Rates RatesConfig `yaml:"rates"`

	// Processing controls event correlation.
	Processing ProcessingConfig `yaml:"processing"`

	// Output controls report format and ordering.
	Output OutputConfig `yaml:"output"`

	// Summary controls the by-subtype summary.
	Summary SummaryConfig `yaml:"summary"`

	// Watch controls the watch command.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RatesConfig contains token prices in USD per million tokens.
type RatesConfig struct {
	// CompletionPerMillion is the price of one million completion tokens.
	// Default: 15.00
	CompletionPerMillion float64 `yaml:"completion_per_million"`

	// CacheWritePerMillion is the price of one million cache-creation tokens.
	// Default: 3.75
	CacheWritePerMillion float64 `yaml:"cache_write_per_million"`

	// CacheReadPerMillion is the price of one million cache-read tokens.
	// Default: 0.30
	CacheReadPerMillion float64 `yaml:"cache_read_per_million"`
}

// ProcessingConfig contains event processing configuration.
type ProcessingConfig struct {
	// Variant selects the correlation strategy.
	// Options: "forward", "backward" (deprecated)
	// Default: "forward"
	Variant string `yaml:"variant"`

	// CorrelationWindow bounds how far after an event its forward usage
	// record may be.
	// Default: 5m
	CorrelationWindow time.Duration `yaml:"correlation_window"`

	// StalenessWindow is the gap to the previous usage record after which a
	// row is marked "cache miss: outdated".
	// Default: 5m
	StalenessWindow time.Duration `yaml:"staleness_window"`

	// MessageWidth is the number of characters kept of each message.
	// Default: 60
	MessageWidth int `yaml:"message_width"`

	// RedactMessages rewrites secrets in row messages before truncation.
	// Default: false
	RedactMessages bool `yaml:"redact_messages"`
}

// OutputConfig contains report output configuration.
type OutputConfig struct {
	// Format is the report format.
	// Options: "text", "json", "csv", "sqlite"
	// Default: "text"
	Format string `yaml:"format"`

	// Precision is the number of fractional digits of money columns.
	// Default: 2
	Precision int `yaml:"precision"`

	// Sort is the column the cost table is sorted by (descending).
	// Empty keeps input order.
	Sort string `yaml:"sort"`

	// Path is the output file; empty writes to stdout.
	Path string `yaml:"path"`
}

// SummaryConfig contains by-subtype summary configuration.
type SummaryConfig struct {
	// IncludeStale keeps rows marked "cache miss: outdated".
	// Default: false
	IncludeStale bool `yaml:"include_stale"`
}

// WatchConfig contains watch mode configuration.
type WatchConfig struct {
	// Debounce is the quiet time after a file change before a re-run.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`

	// Schedule is an optional cron expression for periodic re-runs.
	// Example: "*/5 * * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains run tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets rewrites credentials found in string log attributes.
	// Default: false
	RedactSecrets bool `yaml:"redact_secrets"`

	// RedactPatterns contains additional redaction patterns. They apply to
	// logs and, with processing.redact_messages, to row messages.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains run metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether run metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// TextfilePath is the node-exporter textfile the metrics are written to.
	// Required when metrics are enabled.
	TextfilePath string `yaml:"textfile_path"`

	// Namespace is the metric name prefix.
	// Default: "costlens"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`

	// RowCostBuckets defines histogram buckets for row cost (USD).
	// Default: [0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	RowCostBuckets []float64 `yaml:"row_cost_buckets"`
}

// TracingConfig contains run tracing configuration. Each command run is one
// trace exported over OTLP/gRPC.
type TracingConfig struct {
	// Enabled controls whether runs are traced.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "costlens"
	ServiceName string `yaml:"service_name"`
}
