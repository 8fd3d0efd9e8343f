package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Block kinds. A test is a flat, ordered list of blocks mixing section
// headers and questions; the kind field discriminates on the wire.
const (
	KindSection  = "section"
	KindQuestion = "question"
)

// Resource kinds attached to questions. Opaque to mark reconciliation.
const (
	ResourceImage   = "image"
	ResourceTable   = "table"
	ResourceFormula = "formula"
)

// Block is the atomic content unit of a test. Section blocks carry only
// title/instructions/headerMarks; question blocks carry number, marks,
// prompt and optional parts and resources.
type Block struct {
	Kind string `json:"kind"`

	// Section fields.
	Title        string `json:"title,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	HeaderMarks  int    `json:"headerMarks,omitempty"`

	// Question fields.
	Number    string             `json:"number,omitempty"`
	Marks     int                `json:"marks,omitempty"`
	Prompt    string             `json:"prompt,omitempty"`
	Parts     []QuestionPart     `json:"parts,omitempty"`
	Resources []QuestionResource `json:"resources,omitempty"`
}

// IsQuestion reports whether the block is a question block.
func (b Block) IsQuestion() bool { return b.Kind == KindQuestion }

// IsSection reports whether the block is a section header.
func (b Block) IsSection() bool { return b.Kind == KindSection }

// QuestionPart is a labeled sub-question. When a question has parts, the
// part marks must sum to the parent question's marks.
type QuestionPart struct {
	Label   string   `json:"label"`
	Marks   int      `json:"marks"`
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// Option is a multiple-choice option on a question part.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuestionResource is an attachment referenced by a question (diagram,
// data table, formula sheet extract). Passed through reconciliation
// unchanged.
type QuestionResource struct {
	Kind    string `json:"kind"`
	Locator string `json:"locator,omitempty"`
	Text    string `json:"text,omitempty"`
}

// TestDefinition is a complete test paper: metadata plus the ordered
// block list. Invariant: TotalMarks equals the sum of marks over all
// question blocks, and part marks sub-sum to their parent question.
type TestDefinition struct {
	Title           string  `json:"title"`
	Subject         string  `json:"subject"`
	TotalMarks      int     `json:"totalMarks"`
	Timed           bool    `json:"timed"`
	DurationSeconds int     `json:"durationSeconds,omitempty"`
	Blocks          []Block `json:"blocks"`
}

// Clone returns a deep copy of the definition. Builders hand out clones
// of static template data so callers cannot mutate the tables.
func (d *TestDefinition) Clone() *TestDefinition {
	out := *d
	out.Blocks = CloneBlocks(d.Blocks)
	return &out
}

// CloneBlocks deep-copies a block list.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b
		if b.Parts != nil {
			out[i].Parts = make([]QuestionPart, len(b.Parts))
			for j, p := range b.Parts {
				out[i].Parts[j] = p
				if p.Options != nil {
					out[i].Parts[j].Options = append([]Option(nil), p.Options...)
				}
			}
		}
		if b.Resources != nil {
			out[i].Resources = append([]QuestionResource(nil), b.Resources...)
		}
	}
	return out
}

// QuestionMarksSum returns the sum of marks over all question blocks.
// Section blocks carry no scoring weight.
func QuestionMarksSum(blocks []Block) int {
	sum := 0
	for _, b := range blocks {
		if b.IsQuestion() {
			sum += b.Marks
		}
	}
	return sum
}

// AnswerSet holds a learner's responses keyed by question id.
type AnswerSet struct {
	Items []AnswerItem `json:"items"`
}

// AnswerItem targets a whole question ("q-3") or a sub-part ("q-3-p-2",
// part index 1-based).
type AnswerItem struct {
	QuestionID string `json:"questionId"`
	Response   string `json:"response"`
}

// ScoreReport is the scorer's output for one answer set.
type ScoreReport struct {
	ScoreTotal int         `json:"scoreTotal"`
	MaxTotal   int         `json:"maxTotal"`
	PerItem    []ScoreItem `json:"perItem"`
	WeakAreas  []string    `json:"weakAreas"`
}

// ScoreItem is the allocation for a single answered item.
type ScoreItem struct {
	QuestionID string      `json:"questionId"`
	Allocated  int         `json:"allocated"`
	Max        int         `json:"max"`
	Steps      []ScoreStep `json:"steps,omitempty"`
}

// ScoreStep is one row of a stepwise mark breakdown.
type ScoreStep struct {
	Name   string `json:"name"`
	Earned int    `json:"earned"`
	Max    int    `json:"max"`
	Note   string `json:"note,omitempty"`
}

// Grade is a school grade as sent by clients, which may be a JSON string
// ("10") or a number (10). Normalized to its string form.
type Grade string

// UnmarshalJSON accepts both string and numeric grades.
func (g *Grade) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*g = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*g = Grade(v)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("grade must be a string or number: %w", err)
	}
	if n == float64(int64(n)) {
		*g = Grade(strconv.FormatInt(int64(n), 10))
	} else {
		*g = Grade(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

func (g Grade) String() string { return string(g) }

// Caller is the authenticated identity attached to a request.
type Caller struct {
	Subject string
	Name    string
}

type callerCtxKey struct{}

// ContextWithCaller stores the authenticated caller in the request context.
func ContextWithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, c)
}

// CallerFromContext retrieves the authenticated caller from context, or nil.
func CallerFromContext(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerCtxKey{}).(*Caller)
	return c
}
