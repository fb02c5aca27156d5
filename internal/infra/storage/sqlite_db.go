package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the
// schemas for persisting tournament runs and their final score tables.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// Create tables
	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			rounds INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			strategies INTEGER NOT NULL,
			matches INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS standings (
			run_id TEXT NOT NULL,
			rank INTEGER NOT NULL,
			name TEXT NOT NULL,
			matches INTEGER NOT NULL,
			total REAL NOT NULL,
			average REAL NOT NULL,
			wins INTEGER NOT NULL,
			losses INTEGER NOT NULL,
			ties INTEGER NOT NULL,
			PRIMARY KEY (run_id, rank),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			name_a TEXT NOT NULL,
			name_b TEXT NOT NULL,
			score_a REAL NOT NULL,
			score_b REAL NOT NULL,
			rounds INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_standings_run_id ON standings(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run_id ON matches(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
