// Package store is the sqlite archive of generated papers and score
// reports. Persistence lives entirely at this layer; the build, expand,
// reconcile and score packages stay stateless.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		grade TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		total_marks INTEGER NOT NULL,
		source TEXT NOT NULL DEFAULT 'blueprint',
		definition TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS score_reports (
		id TEXT PRIMARY KEY,
		paper_id TEXT NOT NULL DEFAULT '',
		score_total INTEGER NOT NULL,
		max_total INTEGER NOT NULL,
		report TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS service_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_papers_subject ON papers(subject);
	CREATE INDEX IF NOT EXISTS idx_score_reports_paper ON score_reports(paper_id);
	`
	_, err := s.db.Exec(schema)
	return err
}
