package export

// SchemaVersion is the current artifact schema version.
const SchemaVersion = 1

// Schema contains the SQL statements that create the artifact schema.
const Schema = `
-- One row per processing run
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    variant TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    duration_ms INTEGER NOT NULL,

    -- Counters
    events INTEGER NOT NULL,
    candidates INTEGER NOT NULL,
    rows_emitted INTEGER NOT NULL,
    rows_suppressed INTEGER NOT NULL,
    rows_stale INTEGER NOT NULL,

    -- Decimal strings
    event_cost TEXT NOT NULL,
    total_cost TEXT NOT NULL
);

-- One row per emitted cost row
CREATE TABLE IF NOT EXISTS cost_rows (
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    event_id TEXT NOT NULL,
    timestamp TEXT,
    source TEXT,
    message TEXT,
    subt TEXT NOT NULL,

    cache_read_tokens INTEGER NOT NULL,
    cache_creation_tokens INTEGER NOT NULL,
    completion_tokens INTEGER NOT NULL,

    -- Decimal strings
    cache_read_cost TEXT NOT NULL,
    cache_creation_cost TEXT NOT NULL,
    completion_cost TEXT NOT NULL,
    event_cost TEXT NOT NULL,
    total_cost TEXT NOT NULL,

    special TEXT,

    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_cost_rows_subt ON cost_rows(subt);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the newest schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`
