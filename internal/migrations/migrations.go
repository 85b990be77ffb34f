package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add composite flow indices for the per-flow views",
		Up: `
			-- Composite indices for WHERE flow_id + ORDER BY timestamp DESC
			-- (LoadForFlow in the send log and event managers)
			CREATE INDEX IF NOT EXISTS idx_send_log_flow_timestamp ON send_log(flow_id, timestamp DESC);
			CREATE INDEX IF NOT EXISTS idx_events_flow_timestamp ON events(flow_id, timestamp DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_send_log_flow_timestamp;
			DROP INDEX IF EXISTS idx_events_flow_timestamp;
		`,
	},
	{
		Version: 2,
		Name:    "Add response_body column to send_log",
		Up: `
			-- response_body column already exists in current schema
			-- This migration is kept for databases created before stored
			-- responses could be reloaded into the inspector
		`,
		Down: `
			-- SQLite does not support DROP COLUMN easily
			-- Leaving column in place for backward compatibility
		`,
	},
}

// InitSchema creates all tables required across all modules
// This must be called before running migrations to ensure all tables exist
func InitSchema(db *sql.DB) error {
	schema := `
	-- Send log table
	CREATE TABLE IF NOT EXISTS send_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		flow_id TEXT NOT NULL,
		flow_name TEXT,
		endpoint TEXT NOT NULL,
		contexts TEXT NOT NULL,
		include_secrets INTEGER NOT NULL DEFAULT 0,
		phase TEXT NOT NULL,
		status_code INTEGER,
		status_text TEXT,
		duration_ms INTEGER NOT NULL,
		request_size INTEGER,
		response_size INTEGER,
		response_body TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_send_log_timestamp ON send_log(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_send_log_flow_id ON send_log(flow_id);
	CREATE INDEX IF NOT EXISTS idx_send_log_phase ON send_log(phase);

	-- Tracked events table
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		flow_id TEXT,
		metadata TEXT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);
	CREATE INDEX IF NOT EXISTS idx_events_flow_id ON events(flow_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	// Initialize schema first to ensure all tables exist. The send log and
	// event managers share one database file and either may open it first.
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Create migrations tracking table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	// Apply pending migrations
	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		// Execute migration
		_, err := db.Exec(migration.Up)
		if err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		// Record migration
		_, err = db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
