// Package logging provides structured logging for costlens runs.
//
// # Overview
//
// The logging package builds log/slog loggers with:
//   - JSON or text output on stderr (or any writer)
//   - Configurable log levels (debug, info, warn, error)
//   - Context-aware fields: run_id, log_path and command are added to
//     every record logged with a context that carries them
//   - Optional secret redaction for string attributes
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "text",
//	})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithLogPath(ctx, "session.json")
//	logger.InfoContext(ctx, "processed event log", "rows", 42)
//	// ... run_id=... log_path=session.json rows=42
//
// # Secret Redaction
//
// Event messages and commands come from an agent shell and may contain
// credentials. When RedactSecrets is enabled, string attributes matching a
// known secret shape are rewritten before they are written:
//
//   - API keys: sk-abc123xyz → sk-***
//   - Bearer tokens: Bearer abc.def → Bearer ***
//   - Passwords: password=hunter2 → password: ***
//   - AWS access keys and GitHub tokens
//
// The same Redactor can be applied to report messages, see
// processor.Config.MessageFilter.
package logging
