// Package config provides configuration management for costlens.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("costlens.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("costlens.yaml")
//
//  3. From defaults and the environment, without a file:
//     cfg, err := config.LoadConfigWithEnvOverrides("")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention COSTLENS_SECTION_FIELD.
// For example:
//
//   - COSTLENS_PROCESSING_VARIANT overrides processing.variant
//   - COSTLENS_RATES_COMPLETION_PER_MILLION overrides rates.completion_per_million
//   - COSTLENS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Defaults are applied to zero values, so a rate of 0 or a precision of 0 in
// the file selects the default.
//
// # Published Configuration
//
// The CLI publishes the loaded configuration together with its source. The
// watch command replaces it on reload:
//
//	config.SetConfig(cfg, config.OptionalSource(config.DefaultConfigPath))
//	if err := config.ReloadConfig(path); err != nil {
//	    // previous configuration stays published
//	}
//	cfg := config.GetConfig()
//
// # Validation
//
// Validation errors include field paths and are collected together:
//
//	configuration validation failed with 2 errors:
//	  - processing.variant: invalid variant "sideways": must be 'forward' or 'backward'
//	  - watch.schedule: invalid cron schedule "every day": ...
//
// # Example Configuration
//
//	rates:
//	  completion_per_million: 15.00
//	  cache_write_per_million: 3.75
//	  cache_read_per_million: 0.30
//	processing:
//	  variant: forward
//	  correlation_window: 5m
//	  staleness_window: 5m
//	  message_width: 60
//	output:
//	  format: text
//	  precision: 2
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
package config
