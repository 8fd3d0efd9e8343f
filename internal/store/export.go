package store

import (
	"fmt"
	"time"
)

// ArchiveExport is the JSON document produced by the export command.
type ArchiveExport struct {
	Deployment string        `json:"deployment,omitempty"`
	ExportedAt time.Time     `json:"exportedAt"`
	Papers     []PaperRecord `json:"papers"`
	Scores     []ScoreRecord `json:"scores"`
}

// ExportArchive builds an export-ready dump of all archived papers and
// their score reports.
func (s *Store) ExportArchive(limit int) (*ArchiveExport, error) {
	papers, err := s.ListPapers(limit)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}

	deployment, err := s.GetMetadata("deployment")
	if err != nil {
		return nil, fmt.Errorf("get deployment metadata: %w", err)
	}

	export := &ArchiveExport{
		Deployment: deployment,
		ExportedAt: time.Now().UTC(),
		Papers:     papers,
		Scores:     []ScoreRecord{},
	}

	for _, p := range papers {
		scores, err := s.ListScoreReports(p.ID)
		if err != nil {
			return nil, fmt.Errorf("list scores for paper %s: %w", p.ID, err)
		}
		export.Scores = append(export.Scores, scores...)
	}

	return export, nil
}
