package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for processing run IDs.
	RunIDKey contextKey = "run_id"

	// LogPathKey is the context key for the event log being processed.
	LogPathKey contextKey = "log_path"

	// CommandKey is the context key for the CLI command name.
	CommandKey contextKey = "command"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithLogPath adds the event log path to the context.
func WithLogPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, LogPathKey, path)
}

// GetLogPath retrieves the event log path from the context.
func GetLogPath(ctx context.Context) string {
	if path, ok := ctx.Value(LogPathKey).(string); ok {
		return path
	}
	return ""
}

// WithCommand adds the CLI command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, CommandKey, command)
}

// GetCommand retrieves the CLI command name from the context.
func GetCommand(ctx context.Context) string {
	if command, ok := ctx.Value(CommandKey).(string); ok {
		return command
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
func extractContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var fields []slog.Attr

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, slog.String(string(RunIDKey), runID))
	}

	if path := GetLogPath(ctx); path != "" {
		fields = append(fields, slog.String(string(LogPathKey), path))
	}

	if command := GetCommand(ctx); command != "" {
		fields = append(fields, slog.String(string(CommandKey), command))
	}

	return fields
}
