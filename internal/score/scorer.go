// Package score allocates marks for learner answers against a test
// definition. The current allocation policy is a stand-in: every
// answered item earns half its maximum as method marks and no accuracy
// marks, pending real answer evaluation. The I/O contract (shapes,
// invariants on maxTotal, id addressing) is stable; the numeric policy
// is not.
package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/curza/testgen/internal/model"
)

const (
	// defaultMaxTotal is used when the question list carries no marks.
	defaultMaxTotal = 100

	// methodCreditRatio is the stand-in fraction of an item's maximum
	// granted as method marks regardless of correctness.
	methodCreditRatio = 0.5
)

// Step names of the fixed stepwise rubric breakdown.
const (
	stepSetup    = "Setup & Given"
	stepMethod   = "Method/Application"
	stepAccuracy = "Accuracy/Final"
)

// Options tune a scoring run.
type Options struct {
	// StepwiseRubric attaches the fixed three-step breakdown to every
	// scored item.
	StepwiseRubric bool

	// Working is captured handwritten working, accepted for contract
	// parity and unused by the stand-in policy.
	Working string
}

// Score evaluates an answer set against the given question blocks and
// returns a score report. Questions and answer items must both be
// present (empty items are allowed).
func Score(questions []model.Block, answers model.AnswerSet, opts Options) (*model.ScoreReport, error) {
	if questions == nil {
		return nil, fmt.Errorf("%w: questions must be a list of blocks", model.ErrInvalidArgument)
	}
	if answers.Items == nil {
		return nil, fmt.Errorf("%w: answers.items must be a list", model.ErrInvalidArgument)
	}

	maxTotal := model.QuestionMarksSum(questions)
	if maxTotal <= 0 {
		maxTotal = defaultMaxTotal
	}

	report := &model.ScoreReport{
		MaxTotal:  maxTotal,
		PerItem:   make([]model.ScoreItem, 0, len(answers.Items)),
		WeakAreas: []string{}, // no taxonomy mapping exists yet
	}

	for _, item := range answers.Items {
		itemMax := resolveItemMax(questions, item.QuestionID)
		allocated := int(math.Round(float64(itemMax) * methodCreditRatio))

		scored := model.ScoreItem{
			QuestionID: item.QuestionID,
			Allocated:  allocated,
			Max:        itemMax,
		}
		if opts.StepwiseRubric {
			scored.Steps = buildSteps(itemMax, allocated)
		}

		report.PerItem = append(report.PerItem, scored)
		report.ScoreTotal += allocated
	}

	return report, nil
}

// resolveItemMax finds the maximum marks addressed by an answer id.
// Ids take the form "q-<number>" for a whole question or
// "q-<number>-p-<index>" for a 1-based part. Unresolvable ids score
// against a zero maximum.
func resolveItemMax(questions []model.Block, id string) int {
	number, partIdx, ok := parseQuestionID(id)
	if !ok {
		return 0
	}
	for _, b := range questions {
		if !b.IsQuestion() || b.Number != number {
			continue
		}
		if partIdx == 0 {
			return b.Marks
		}
		if partIdx >= 1 && partIdx <= len(b.Parts) {
			return b.Parts[partIdx-1].Marks
		}
		return 0
	}
	return 0
}

// parseQuestionID splits "q-3" or "q-3-p-2" into question number and
// part index (0 when the id targets the whole question).
func parseQuestionID(id string) (number string, partIdx int, ok bool) {
	rest, found := strings.CutPrefix(id, "q-")
	if !found || rest == "" {
		return "", 0, false
	}
	number, partStr, hasPart := strings.Cut(rest, "-p-")
	if number == "" {
		return "", 0, false
	}
	if !hasPart {
		return number, 0, true
	}
	idx, err := strconv.Atoi(partStr)
	if err != nil || idx < 1 {
		return "", 0, false
	}
	return number, idx, true
}

// buildSteps attaches the fixed three-step breakdown. All stand-in
// credit lands on the method step; setup and accuracy earn nothing
// until real evaluation exists.
func buildSteps(itemMax, allocated int) []model.ScoreStep {
	setupMax := int(math.Round(float64(itemMax) * 0.25))
	accuracyMax := int(math.Round(float64(itemMax) * 0.25))
	methodMax := itemMax - setupMax - accuracyMax

	return []model.ScoreStep{
		{Name: stepSetup, Earned: 0, Max: setupMax},
		{Name: stepMethod, Earned: allocated, Max: methodMax,
			Note: "method credit granted pending model-answer evaluation"},
		{Name: stepAccuracy, Earned: 0, Max: accuracyMax},
	}
}
