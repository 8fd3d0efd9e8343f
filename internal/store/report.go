package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/curza/testgen/internal/model"
)

// ScoreRecord is an archived score report, optionally linked to the
// paper it scored.
type ScoreRecord struct {
	ID         string            `json:"id"`
	PaperID    string            `json:"paperId,omitempty"`
	ScoreTotal int               `json:"scoreTotal"`
	MaxTotal   int               `json:"maxTotal"`
	Report     model.ScoreReport `json:"report"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// SaveScoreReport archives a score report and returns its generated id.
func (s *Store) SaveScoreReport(rec ScoreRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO score_reports (id, paper_id, score_total, max_total, report, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PaperID, rec.ScoreTotal, rec.MaxTotal, string(reportJSON), rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert score report: %w", err)
	}
	return rec.ID, nil
}

// ListScoreReports returns archived reports for a paper, newest first.
func (s *Store) ListScoreReports(paperID string) ([]ScoreRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, paper_id, score_total, max_total, report, created_at
		 FROM score_reports WHERE paper_id = ? ORDER BY created_at DESC, id`, paperID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		var reportJSON string
		if err := rows.Scan(&rec.ID, &rec.PaperID, &rec.ScoreTotal,
			&rec.MaxTotal, &reportJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
