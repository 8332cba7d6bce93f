package cli

import (
	"errors"
	"fmt"
	"strings"

	"mercator-hq/costlens/pkg/config"
	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/export"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitInput   = 3
	ExitData    = 4
	ExitConfig  = 5
	ExitExport  = 6
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// WrapConfigError converts a configuration load or validation failure into
// a ConfigError. A single field error keeps its field name.
func WrapConfigError(err error) *ConfigError {
	var ve config.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) == 1 {
		return &ConfigError{Field: ve.Errors[0].Field, Message: ve.Errors[0].Message, Err: err}
	}
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			msgs = append(msgs, fe.Error())
		}
		return &ConfigError{Message: strings.Join(msgs, "; "), Err: err}
	}
	return &ConfigError{Message: err.Error(), Err: err}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		inputErr  *events.InputError
		dataErr   *events.InvalidLogDataError
		cfgErr    *ConfigError
		exportErr *export.ExportError
	)
	switch {
	case errors.Is(err, events.ErrNoInput):
		return ExitUsage
	case errors.As(err, &inputErr):
		return ExitInput
	case errors.As(err, &dataErr):
		return ExitData
	case errors.As(err, &cfgErr):
		return ExitConfig
	case errors.As(err, &exportErr):
		return ExitExport
	default:
		return ExitFailure
	}
}
