package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS subjects (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	long_name  TEXT,
	fetched_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS timetable_fetches (
	subject_id INTEGER NOT NULL,
	range_from TEXT NOT NULL,
	range_to   TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (subject_id, range_from, range_to)
);
CREATE TABLE IF NOT EXISTS periods (
	subject_id INTEGER NOT NULL,
	range_from TEXT NOT NULL,
	range_to   TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	start_at   TEXT NOT NULL,
	end_at     TEXT NOT NULL,
	groups     TEXT NOT NULL,
	PRIMARY KEY (subject_id, range_from, range_to, seq)
);`

// DefaultSnapshotPath returns the snapshot database location under the user cache dir
func DefaultSnapshotPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "untis-tabulator", "snapshots.db"), nil
}

// OpenDatabase opens (creating if needed) the SQLite snapshot database
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// fetches run concurrently; SQLite wants a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}
