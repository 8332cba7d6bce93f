package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// SourceDefaults is the source reported when no configuration file was read.
const SourceDefaults = "built-in defaults"

var (
	currentMu sync.RWMutex
	current   *Config
	source    string
)

// GetConfig returns the published configuration, or nil before SetConfig.
// It is safe for concurrent use.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// Source returns the file the published configuration was loaded from.
func Source() string {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return source
}

// SetConfig publishes cfg as loaded from src.
func SetConfig(cfg *Config, src string) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
	source = src
}

// ReloadConfig loads path with environment overrides and publishes it.
// On error the published configuration is left untouched.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg, path)
	return nil
}

// OptionalSource returns path when the file exists and SourceDefaults
// otherwise, matching what LoadOptional reads.
func OptionalSource(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return SourceDefaults
	}
	return path
}
