// Package db provides the database connection and schema for the
// optional deskmend run ledger.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Run outcomes - append-only audit history, one row per descriptor
	// per pass. Reconciliation never reads this table.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run_outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			setting_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			observed TEXT,
			level TEXT NOT NULL,
			detail TEXT,
			remediated INTEGER NOT NULL,
			remediation TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_run ON run_outcomes(run_id);
		CREATE INDEX IF NOT EXISTS idx_outcomes_setting_ts ON run_outcomes(setting_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_outcomes table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
