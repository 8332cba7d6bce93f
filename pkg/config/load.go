package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention COSTLENS_SECTION_FIELD (e.g., COSTLENS_PROCESSING_VARIANT).
// An empty path starts from the defaults instead of a file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOptional behaves like LoadConfigWithEnvOverrides but treats a missing
// file as an empty one. It is used for the implicit default path.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return LoadConfigWithEnvOverrides("")
	}
	return LoadConfigWithEnvOverrides(path)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format COSTLENS_SECTION_FIELD. A value that
// cannot be parsed is an error.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val := os.Getenv(name); val != "" {
			*dst = val
		}
	}
	float := func(name string, dst *float64) {
		if val := os.Getenv(name); val != "" {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("invalid number %q", val)})
				return
			}
			*dst = f
		}
	}
	integer := func(name string, dst *int) {
		if val := os.Getenv(name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("invalid integer %q", val)})
				return
			}
			*dst = i
		}
	}
	boolean := func(name string, dst *bool) {
		if val := os.Getenv(name); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("invalid boolean %q", val)})
				return
			}
			*dst = b
		}
	}
	duration := func(name string, dst *time.Duration) {
		if val := os.Getenv(name); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("invalid duration %q", val)})
				return
			}
			*dst = d
		}
	}

	// Rates overrides
	float("COSTLENS_RATES_COMPLETION_PER_MILLION", &cfg.Rates.CompletionPerMillion)
	float("COSTLENS_RATES_CACHE_WRITE_PER_MILLION", &cfg.Rates.CacheWritePerMillion)
	float("COSTLENS_RATES_CACHE_READ_PER_MILLION", &cfg.Rates.CacheReadPerMillion)

	// Processing overrides
	str("COSTLENS_PROCESSING_VARIANT", &cfg.Processing.Variant)
	duration("COSTLENS_PROCESSING_CORRELATION_WINDOW", &cfg.Processing.CorrelationWindow)
	duration("COSTLENS_PROCESSING_STALENESS_WINDOW", &cfg.Processing.StalenessWindow)
	integer("COSTLENS_PROCESSING_MESSAGE_WIDTH", &cfg.Processing.MessageWidth)
	boolean("COSTLENS_PROCESSING_REDACT_MESSAGES", &cfg.Processing.RedactMessages)

	// Output overrides
	str("COSTLENS_OUTPUT_FORMAT", &cfg.Output.Format)
	integer("COSTLENS_OUTPUT_PRECISION", &cfg.Output.Precision)
	str("COSTLENS_OUTPUT_SORT", &cfg.Output.Sort)
	str("COSTLENS_OUTPUT_PATH", &cfg.Output.Path)

	// Summary overrides
	boolean("COSTLENS_SUMMARY_INCLUDE_STALE", &cfg.Summary.IncludeStale)

	// Watch overrides
	duration("COSTLENS_WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	str("COSTLENS_WATCH_SCHEDULE", &cfg.Watch.Schedule)

	// Telemetry overrides
	str("COSTLENS_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("COSTLENS_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	boolean("COSTLENS_TELEMETRY_LOGGING_REDACT_SECRETS", &cfg.Telemetry.Logging.RedactSecrets)
	boolean("COSTLENS_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	str("COSTLENS_TELEMETRY_METRICS_TEXTFILE_PATH", &cfg.Telemetry.Metrics.TextfilePath)
	str("COSTLENS_TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	boolean("COSTLENS_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	str("COSTLENS_TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	float("COSTLENS_TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	str("COSTLENS_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	boolean("COSTLENS_TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", ValidationError{Errors: errs})
	}
	return nil
}
