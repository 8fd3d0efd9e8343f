package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/curza/testgen/internal/model"
)

// Paper sources recorded in the archive.
const (
	SourceBlueprint = "blueprint"
	SourceExpanded  = "expanded"
)

// PaperRecord is an archived generated paper.
type PaperRecord struct {
	ID         string               `json:"id"`
	Subject    string               `json:"subject"`
	Grade      string               `json:"grade,omitempty"`
	Title      string               `json:"title"`
	TotalMarks int                  `json:"totalMarks"`
	Source     string               `json:"source"`
	Definition model.TestDefinition `json:"definition"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// SavePaper archives a paper and returns its generated id.
func (s *Store) SavePaper(rec PaperRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	defJSON, err := json.Marshal(rec.Definition)
	if err != nil {
		return "", fmt.Errorf("marshal definition: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO papers (id, subject, grade, title, total_marks, source, definition, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Subject, rec.Grade, rec.Title, rec.TotalMarks, rec.Source, string(defJSON), rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert paper: %w", err)
	}
	return rec.ID, nil
}

// GetPaper returns an archived paper by id.
func (s *Store) GetPaper(id string) (*PaperRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, subject, grade, title, total_marks, source, definition, created_at
		 FROM papers WHERE id = ?`, id,
	)
	rec, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: paper %s", model.ErrNotFound, id)
	}
	return rec, err
}

// ListPapers returns the most recently archived papers, newest first.
func (s *Store) ListPapers(limit int) ([]PaperRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, subject, grade, title, total_marks, source, definition, created_at
		 FROM papers ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []PaperRecord
	for rows.Next() {
		rec, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *rec)
	}
	return papers, rows.Err()
}

// PaperCount returns the number of archived papers.
func (s *Store) PaperCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*PaperRecord, error) {
	var rec PaperRecord
	var defJSON string
	if err := row.Scan(&rec.ID, &rec.Subject, &rec.Grade, &rec.Title,
		&rec.TotalMarks, &rec.Source, &defJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(defJSON), &rec.Definition); err != nil {
		return nil, fmt.Errorf("unmarshal definition for paper %s: %w", rec.ID, err)
	}
	return &rec, nil
}
