package config

import "time"

// Default values for configuration fields.
const (
	// Rate defaults (USD per million tokens)
	DefaultCompletionPerMillion = 15.00
	DefaultCacheWritePerMillion = 3.75
	DefaultCacheReadPerMillion  = 0.30

	// Processing defaults
	DefaultVariant           = "forward"
	DefaultCorrelationWindow = 5 * time.Minute
	DefaultStalenessWindow   = 5 * time.Minute
	DefaultMessageWidth      = 60

	// Output defaults
	DefaultOutputFormat    = "text"
	DefaultOutputPrecision = 2

	// Watch defaults
	DefaultWatchDebounce = 250 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "costlens"
	DefaultTracingSampler   = "always"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultServiceName      = "costlens"

	// DefaultConfigPath is the file read when no --config flag is given.
	DefaultConfigPath = "costlens.yaml"
)

// DefaultRowCostBuckets are the default histogram buckets for row cost.
var DefaultRowCostBuckets = []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Rate defaults
	if cfg.Rates.CompletionPerMillion == 0 {
		cfg.Rates.CompletionPerMillion = DefaultCompletionPerMillion
	}
	if cfg.Rates.CacheWritePerMillion == 0 {
		cfg.Rates.CacheWritePerMillion = DefaultCacheWritePerMillion
	}
	if cfg.Rates.CacheReadPerMillion == 0 {
		cfg.Rates.CacheReadPerMillion = DefaultCacheReadPerMillion
	}

	// Processing defaults
	if cfg.Processing.Variant == "" {
		cfg.Processing.Variant = DefaultVariant
	}
	if cfg.Processing.CorrelationWindow == 0 {
		cfg.Processing.CorrelationWindow = DefaultCorrelationWindow
	}
	if cfg.Processing.StalenessWindow == 0 {
		cfg.Processing.StalenessWindow = DefaultStalenessWindow
	}
	if cfg.Processing.MessageWidth == 0 {
		cfg.Processing.MessageWidth = DefaultMessageWidth
	}

	// Output defaults
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}
	if cfg.Output.Precision == 0 {
		cfg.Output.Precision = DefaultOutputPrecision
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RowCostBuckets) == 0 {
		cfg.Telemetry.Metrics.RowCostBuckets = append([]float64(nil), DefaultRowCostBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
