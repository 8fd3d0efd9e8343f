package blueprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/curza/testgen/internal/model"
)

// Section test sizing. Requested counts are clamped to MaxQuestions;
// zero or negative counts fall back to DefaultQuestions.
const (
	MaxQuestions       = 60
	DefaultQuestions   = 10
	MarksPerQuestion   = 5
	SecondsPerQuestion = 120
)

// BuildFullExam returns a full exam skeleton for the given subject and
// grade from the static template table. Unknown exam types fall back to
// the default paper. Output is deterministic: the same inputs always
// produce the same definition.
func BuildFullExam(subject, grade, examType string, timed bool) (*model.TestDefinition, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", model.ErrInvalidArgument)
	}
	if strings.TrimSpace(grade) == "" {
		return nil, fmt.Errorf("%w: grade is required", model.ErrInvalidArgument)
	}

	tmpl := lookupTemplate(subject, examType)

	def := &model.TestDefinition{
		Title:      fmt.Sprintf("%s %s (Grade %s)", subject, tmpl.paperLabel, grade),
		Subject:    subject,
		TotalMarks: tmpl.totalMarks,
		Timed:      timed,
		Blocks:     model.CloneBlocks(tmpl.blocks),
	}
	if timed {
		def.DurationSeconds = tmpl.durationSeconds
	}
	return def, nil
}

// BuildSectionTest returns a topic practice test: one section header
// followed by count uniform questions worth MarksPerQuestion each.
func BuildSectionTest(subject, grade, topic string, count int, timed bool) (*model.TestDefinition, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", model.ErrInvalidArgument)
	}
	if strings.TrimSpace(grade) == "" {
		return nil, fmt.Errorf("%w: grade is required", model.ErrInvalidArgument)
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is required for a section test", model.ErrInvalidArgument)
	}

	count = clampCount(count)

	blocks := make([]model.Block, 0, count+1)
	blocks = append(blocks, model.Block{
		Kind:         model.KindSection,
		Title:        topic,
		Instructions: fmt.Sprintf("Answer ALL questions. Each question counts %d marks. Show ALL working.", MarksPerQuestion),
		HeaderMarks:  count * MarksPerQuestion,
	})
	for i := 1; i <= count; i++ {
		blocks = append(blocks, model.Block{
			Kind:   model.KindQuestion,
			Number: strconv.Itoa(i),
			Marks:  MarksPerQuestion,
			Prompt: fmt.Sprintf("Grade %s %s question on %s", grade, subject, topic),
		})
	}

	def := &model.TestDefinition{
		Title:      fmt.Sprintf("%s Practice Test: %s", subject, topic),
		Subject:    subject,
		TotalMarks: count * MarksPerQuestion,
		Timed:      timed,
		Blocks:     blocks,
	}
	if timed {
		def.DurationSeconds = count * SecondsPerQuestion
	}
	return def, nil
}

// clampCount applies the default and the upper bound.
func clampCount(count int) int {
	if count <= 0 {
		return DefaultQuestions
	}
	if count > MaxQuestions {
		return MaxQuestions
	}
	return count
}
