package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/processor"
)

// SQLiteConfig contains configuration for the SQLite artifact.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteWriter stores processing runs in a SQLite database.
// It is safe for concurrent use.
type SQLiteWriter struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// RunRecord is a stored run as read back from the artifact.
type RunRecord struct {
	RunID      string
	Source     string
	Variant    string
	Events     int
	Candidates int
	Rows       int
	Suppressed int
	Stale      int
	EventCost  decimal.Decimal
	TotalCost  decimal.Decimal
}

// NewSQLiteWriter opens (or creates) the artifact at cfg.Path and ensures the
// schema exists.
func NewSQLiteWriter(cfg SQLiteConfig, logger *slog.Logger) (*SQLiteWriter, error) {
	if cfg.Path == "" {
		return nil, NewExportError(string(FormatSQLite), 0, fmt.Errorf("db path cannot be empty"))
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewExportError(string(FormatSQLite), 0, fmt.Errorf("failed to open database: %w", err))
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	w := &SQLiteWriter{
		db:     db,
		path:   cfg.Path,
		logger: logger.With("component", "export.sqlite"),
	}

	if err := w.initSchema(); err != nil {
		db.Close()
		return nil, NewExportError(string(FormatSQLite), 0, err)
	}

	w.logger.Debug("SQLite artifact opened", "path", cfg.Path)
	return w, nil
}

// initSchema creates the tables and verifies the schema version.
func (s *SQLiteWriter) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to insert schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version)
	}
	return nil
}

// WriteRun stores a run and its rows in one transaction. source names the
// event log the run was computed from.
func (s *SQLiteWriter) WriteRun(ctx context.Context, source string, result *processor.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fail := func(err error) error {
		return NewExportError(string(FormatSQLite), len(result.Rows), err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var total costs.Breakdown
	for _, r := range result.Rows {
		total = total.Add(r.Costs)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, source, variant, created_at, duration_ms,
			events, candidates, rows_emitted, rows_suppressed, rows_stale,
			event_cost, total_cost
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, source, string(result.Variant), time.Now().UTC(), result.Duration.Milliseconds(),
		result.Stats.Events, result.Stats.Candidates, result.Stats.Rows, result.Stats.Suppressed, result.Stats.Stale,
		total.EventCost().String(), total.TotalCost().String(),
	)
	if err != nil {
		return fail(fmt.Errorf("failed to insert run: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cost_rows (
			run_id, seq, event_id, timestamp, source, message, subt,
			cache_read_tokens, cache_creation_tokens, completion_tokens,
			cache_read_cost, cache_creation_cost, completion_cost, event_cost, total_cost,
			special
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fail(fmt.Errorf("failed to prepare row insert: %w", err))
	}
	defer stmt.Close()

	for i, r := range result.Rows {
		// Convert empty strings to NULL for optional fields
		var special any
		if r.Special != "" {
			special = r.Special
		}

		_, err := stmt.ExecContext(ctx,
			result.RunID, i, r.ID.String(), r.Timestamp, r.Source, r.Message, r.Subtype,
			r.CacheReadTokens, r.CacheCreationTokens, r.CompletionTokens,
			r.Costs.CacheReadCost.String(), r.Costs.CacheCreationCost.String(), r.Costs.CompletionCost.String(),
			r.EventCost().String(), r.TotalCost().String(),
			special,
		)
		if err != nil {
			return fail(fmt.Errorf("failed to insert row %d: %w", i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("failed to commit: %w", err))
	}

	s.logger.DebugContext(ctx, "run stored",
		"run_id", result.RunID,
		"rows", len(result.Rows),
		"path", s.path,
	)
	return nil
}

// Run reads back a stored run.
func (s *SQLiteWriter) Run(ctx context.Context, runID string) (*RunRecord, error) {
	var rec RunRecord
	var eventCost, totalCost string

	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, source, variant,
			events, candidates, rows_emitted, rows_suppressed, rows_stale,
			event_cost, total_cost
		FROM runs WHERE run_id = ?`, runID,
	).Scan(
		&rec.RunID, &rec.Source, &rec.Variant,
		&rec.Events, &rec.Candidates, &rec.Rows, &rec.Suppressed, &rec.Stale,
		&eventCost, &totalCost,
	)
	if err != nil {
		return nil, NewExportError(string(FormatSQLite), 0, fmt.Errorf("failed to read run %s: %w", runID, err))
	}

	if rec.EventCost, err = decimal.NewFromString(eventCost); err != nil {
		return nil, NewExportError(string(FormatSQLite), 0, err)
	}
	if rec.TotalCost, err = decimal.NewFromString(totalCost); err != nil {
		return nil, NewExportError(string(FormatSQLite), 0, err)
	}
	return &rec, nil
}

// CountRows returns the number of stored cost rows of a run.
func (s *SQLiteWriter) CountRows(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cost_rows WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, NewExportError(string(FormatSQLite), 0, err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}
