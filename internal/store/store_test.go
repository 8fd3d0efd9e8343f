package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/curza/testgen/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPaper() PaperRecord {
	return PaperRecord{
		Subject:    "Mathematics",
		Grade:      "10",
		Title:      "Mathematics Practice Test: Algebra",
		TotalMarks: 20,
		Source:     SourceExpanded,
		Definition: model.TestDefinition{
			Title:      "Mathematics Practice Test: Algebra",
			Subject:    "Mathematics",
			TotalMarks: 20,
			Blocks: []model.Block{
				{Kind: model.KindSection, Title: "Algebra"},
				{Kind: model.KindQuestion, Number: "1", Marks: 20, Prompt: "Solve for x: 2x + 1 = 9"},
			},
		},
	}
}

func TestPaperRoundTrip(t *testing.T) {
	s := newTestStore(t)

	count, err := s.PaperCount()
	if err != nil {
		t.Fatalf("PaperCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty archive, got %d papers", count)
	}

	in := testPaper()
	id, err := s.SavePaper(in)
	if err != nil {
		t.Fatalf("SavePaper: %v", err)
	}
	if id == "" {
		t.Fatal("SavePaper returned empty id")
	}

	got, err := s.GetPaper(id)
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if got.Subject != in.Subject || got.Title != in.Title || got.TotalMarks != in.TotalMarks {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.Source != SourceExpanded {
		t.Errorf("source = %q, want %q", got.Source, SourceExpanded)
	}
	if !reflect.DeepEqual(got.Definition, in.Definition) {
		t.Errorf("definition mismatch:\ngot  %+v\nwant %+v", got.Definition, in.Definition)
	}
	if got.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
}

func TestGetPaperNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPaper("no-such-id")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPapers(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.SavePaper(testPaper()); err != nil {
			t.Fatalf("SavePaper: %v", err)
		}
	}

	papers, err := s.ListPapers(0)
	if err != nil {
		t.Fatalf("ListPapers: %v", err)
	}
	if len(papers) != 3 {
		t.Errorf("papers = %d, want 3", len(papers))
	}

	papers, err = s.ListPapers(2)
	if err != nil {
		t.Fatalf("ListPapers limited: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("limited papers = %d, want 2", len(papers))
	}
}

func TestScoreReportRoundTrip(t *testing.T) {
	s := newTestStore(t)

	paperID, err := s.SavePaper(testPaper())
	if err != nil {
		t.Fatalf("SavePaper: %v", err)
	}

	report := model.ScoreReport{
		ScoreTotal: 10,
		MaxTotal:   20,
		PerItem: []model.ScoreItem{
			{QuestionID: "q-1", Allocated: 10, Max: 20},
		},
		WeakAreas: []string{},
	}
	id, err := s.SaveScoreReport(ScoreRecord{
		PaperID:    paperID,
		ScoreTotal: report.ScoreTotal,
		MaxTotal:   report.MaxTotal,
		Report:     report,
	})
	if err != nil {
		t.Fatalf("SaveScoreReport: %v", err)
	}
	if id == "" {
		t.Fatal("SaveScoreReport returned empty id")
	}

	records, err := s.ListScoreReports(paperID)
	if err != nil {
		t.Fatalf("ListScoreReports: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if !reflect.DeepEqual(records[0].Report, report) {
		t.Errorf("report mismatch:\ngot  %+v\nwant %+v", records[0].Report, report)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetMetadata("deployment")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if v != "" {
		t.Errorf("missing key should return empty, got %q", v)
	}

	if err := s.SetMetadata("deployment", "staging"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.SetMetadata("deployment", "production"); err != nil {
		t.Fatalf("SetMetadata upsert: %v", err)
	}

	v, err = s.GetMetadata("deployment")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if v != "production" {
		t.Errorf("value = %q, want production", v)
	}
}

func TestExportArchive(t *testing.T) {
	s := newTestStore(t)

	paperID, err := s.SavePaper(testPaper())
	if err != nil {
		t.Fatalf("SavePaper: %v", err)
	}
	if _, err := s.SaveScoreReport(ScoreRecord{PaperID: paperID, ScoreTotal: 5, MaxTotal: 20}); err != nil {
		t.Fatalf("SaveScoreReport: %v", err)
	}
	if err := s.SetMetadata("deployment", "test"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}

	export, err := s.ExportArchive(0)
	if err != nil {
		t.Fatalf("ExportArchive: %v", err)
	}
	if export.Deployment != "test" {
		t.Errorf("deployment = %q, want test", export.Deployment)
	}
	if len(export.Papers) != 1 || len(export.Scores) != 1 {
		t.Errorf("papers=%d scores=%d, want 1,1", len(export.Papers), len(export.Scores))
	}
}
