package model

import (
	"encoding/json"
	"testing"
)

func TestGradeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Grade
		wantErr bool
	}{
		{"string", `"10"`, Grade("10"), false},
		{"integer", `10`, Grade("10"), false},
		{"float", `10.5`, Grade("10.5"), false},
		{"null", `null`, Grade(""), false},
		{"word", `"Grade 12"`, Grade("Grade 12"), false},
		{"bool", `true`, Grade(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grade
			err := json.Unmarshal([]byte(tt.input), &g)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", g)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if g != tt.want {
				t.Errorf("got %q, want %q", g, tt.want)
			}
		})
	}
}

func TestQuestionMarksSum(t *testing.T) {
	blocks := []Block{
		{Kind: KindSection, Title: "Section A", HeaderMarks: 40},
		{Kind: KindQuestion, Number: "1", Marks: 12},
		{Kind: KindQuestion, Number: "2", Marks: 8},
		{Kind: KindSection, Title: "Section B"},
		{Kind: KindQuestion, Number: "3", Marks: 20},
	}
	if got := QuestionMarksSum(blocks); got != 40 {
		t.Errorf("QuestionMarksSum = %d, want 40", got)
	}
	if got := QuestionMarksSum(nil); got != 0 {
		t.Errorf("QuestionMarksSum(nil) = %d, want 0", got)
	}
}

func TestCloneIndependence(t *testing.T) {
	def := &TestDefinition{
		Title:      "Paper",
		Subject:    "Mathematics",
		TotalMarks: 10,
		Blocks: []Block{
			{Kind: KindQuestion, Number: "1", Marks: 10, Parts: []QuestionPart{
				{Label: "1.1", Marks: 4, Prompt: "a", Options: []Option{{Label: "A", Text: "x"}}},
				{Label: "1.2", Marks: 6, Prompt: "b"},
			}},
		},
	}

	clone := def.Clone()
	clone.Blocks[0].Marks = 99
	clone.Blocks[0].Parts[0].Marks = 99
	clone.Blocks[0].Parts[0].Options[0].Text = "changed"

	if def.Blocks[0].Marks != 10 {
		t.Error("clone shares question marks with original")
	}
	if def.Blocks[0].Parts[0].Marks != 4 {
		t.Error("clone shares part marks with original")
	}
	if def.Blocks[0].Parts[0].Options[0].Text != "x" {
		t.Error("clone shares options with original")
	}
}

func TestBlockKindHelpers(t *testing.T) {
	q := Block{Kind: KindQuestion}
	s := Block{Kind: KindSection}
	if !q.IsQuestion() || q.IsSection() {
		t.Error("question block misclassified")
	}
	if !s.IsSection() || s.IsQuestion() {
		t.Error("section block misclassified")
	}
}

func TestBlockWireRoundTrip(t *testing.T) {
	in := `{"kind":"question","number":"2","marks":7,"prompt":"Solve for x",
		"parts":[{"label":"2.1","marks":3,"prompt":"first"},{"label":"2.2","marks":4,"prompt":"second"}],
		"resources":[{"kind":"table","text":"x | y"}]}`

	var b Block
	if err := json.Unmarshal([]byte(in), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !b.IsQuestion() || b.Number != "2" || b.Marks != 7 {
		t.Errorf("unexpected block: %+v", b)
	}
	if len(b.Parts) != 2 || b.Parts[1].Marks != 4 {
		t.Errorf("unexpected parts: %+v", b.Parts)
	}
	if len(b.Resources) != 1 || b.Resources[0].Kind != ResourceTable {
		t.Errorf("unexpected resources: %+v", b.Resources)
	}

	out, err := json.Marshal(Block{Kind: KindSection, Title: "Section A"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Section blocks must not leak zero-valued question fields.
	if string(out) != `{"kind":"section","title":"Section A"}` {
		t.Errorf("unexpected section JSON: %s", out)
	}
}
