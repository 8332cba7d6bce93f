package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "processing.variant").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Accepted values.
var (
	validVariants      = []string{"forward", "backward"}
	validOutputFormats = []string{"text", "json", "csv", "sqlite"}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text"}
	validSamplers      = []string{"always", "never", "ratio"}

	// ValidSortKeys are the columns a cost table can be sorted by.
	ValidSortKeys = []string{
		"event_cost", "total_cost",
		"completion_tokens", "cache_read_tokens", "cache_creation_tokens",
		"completion_cost", "cache_read_cost", "cache_creation_cost",
	}
)

// maxPrecision bounds the fractional digits of money columns.
const maxPrecision = 12

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRates(&cfg.Rates)...)
	errs = append(errs, validateProcessing(&cfg.Processing)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateRates(cfg *RatesConfig) []FieldError {
	var errs []FieldError

	rates := []struct {
		field string
		value float64
	}{
		{"rates.completion_per_million", cfg.CompletionPerMillion},
		{"rates.cache_write_per_million", cfg.CacheWritePerMillion},
		{"rates.cache_read_per_million", cfg.CacheReadPerMillion},
	}
	for _, r := range rates {
		if r.value < 0 {
			errs = append(errs, FieldError{
				Field:   r.field,
				Message: fmt.Sprintf("rate must not be negative, got %v", r.value),
			})
		}
	}

	return errs
}

func validateProcessing(cfg *ProcessingConfig) []FieldError {
	var errs []FieldError

	if !contains(validVariants, cfg.Variant) {
		errs = append(errs, FieldError{
			Field:   "processing.variant",
			Message: fmt.Sprintf("invalid variant %q: must be 'forward' or 'backward'", cfg.Variant),
		})
	}

	if cfg.CorrelationWindow <= 0 {
		errs = append(errs, FieldError{
			Field:   "processing.correlation_window",
			Message: "correlation window must be positive",
		})
	}

	if cfg.StalenessWindow <= 0 {
		errs = append(errs, FieldError{
			Field:   "processing.staleness_window",
			Message: "staleness window must be positive",
		})
	}

	if cfg.MessageWidth <= 0 {
		errs = append(errs, FieldError{
			Field:   "processing.message_width",
			Message: "message width must be positive",
		})
	}

	return errs
}

func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	if !contains(validOutputFormats, cfg.Format) {
		errs = append(errs, FieldError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid format %q: must be one of %s", cfg.Format, strings.Join(validOutputFormats, ", ")),
		})
	}

	if cfg.Precision < 0 || cfg.Precision > maxPrecision {
		errs = append(errs, FieldError{
			Field:   "output.precision",
			Message: fmt.Sprintf("precision must be between 0 and %d", maxPrecision),
		})
	}

	if cfg.Sort != "" && !contains(ValidSortKeys, cfg.Sort) {
		errs = append(errs, FieldError{
			Field:   "output.sort",
			Message: fmt.Sprintf("invalid sort key %q: must be one of %s", cfg.Sort, strings.Join(ValidSortKeys, ", ")),
		})
	}

	if cfg.Format == "sqlite" && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "output.path",
			Message: "an output path is required for the sqlite format",
		})
	}

	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "watch.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !contains(validLogLevels, cfg.Logging.Level) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !contains(validLogFormats, cfg.Logging.Format) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		if p.Pattern == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: "pattern is required",
			})
		} else if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.TextfilePath == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.textfile_path",
			Message: "textfile path is required when metrics are enabled",
		})
	}

	if cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "metrics namespace is required",
		})
	}

	for i := 1; i < len(cfg.Metrics.RowCostBuckets); i++ {
		if cfg.Metrics.RowCostBuckets[i] <= cfg.Metrics.RowCostBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.row_cost_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	errs = append(errs, validateTracing(&cfg.Tracing)...)

	return errs
}

func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	if !contains(validSamplers, cfg.Sampler) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Sampler),
		})
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.timeout",
			Message: "timeout must be non-negative",
		})
	}
	if cfg.Enabled && cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	return errs
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
