package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the first-seen map in a SQLite database so "new"
// detection survives restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the seen_jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_jobs (
		job_id     TEXT PRIMARY KEY,
		first_seen TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// FirstSeen returns the recorded first-seen time for the id, if any.
func (s *SQLiteStore) FirstSeen(id string) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRow("SELECT first_seen FROM seen_jobs WHERE job_id = ?", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading first seen for %s: %w", id, err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing first seen for %s: %w", id, err)
	}
	return t, true, nil
}

// Record stores the first-seen time for an id. Existing entries are left
// untouched: first-seen is immutable once set.
func (s *SQLiteStore) Record(id string, firstSeen time.Time) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_jobs (job_id, first_seen) VALUES (?, ?)",
		id, firstSeen.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", id, err)
	}
	return nil
}

// Cleanup deletes entries first seen earlier than olderThan ago. Postings
// that reappear afterwards show up as new again; run it with a retention
// comfortably longer than the recency window.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	_, err := s.db.Exec("DELETE FROM seen_jobs WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up entries older than %v: %w", olderThan, err)
	}
	return nil
}

// Len returns the number of recorded ids.
func (s *SQLiteStore) Len() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seen_jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting seen jobs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
