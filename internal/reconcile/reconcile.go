// Package reconcile restores mark-total invariants on a test definition
// after content expansion. The external model is allowed to drift on
// mark compliance; this package rescales question and part marks so the
// paper total matches exactly and every mark stays at least 1.
package reconcile

import (
	"math"

	"github.com/curza/testgen/internal/model"
)

// ResidualStrategy names the policy for which element absorbs the
// rounding residual left over by proportional rescaling. The choice is
// arbitrary but must be deterministic; it is exposed so callers and
// tests can pin it explicitly.
type ResidualStrategy int

const (
	// ResidualLast assigns the residual to the last question (or part)
	// in document order. This is the compatibility default.
	ResidualLast ResidualStrategy = iota

	// ResidualLargest assigns the residual to the question (or part)
	// with the largest original mark value, first occurrence winning ties.
	ResidualLargest
)

// Apply rescales question marks so they sum exactly to def.TotalMarks,
// then fixes part marks on every question so they sum to their parent.
// Section blocks pass through untouched. The walk is strictly ordered:
// the residual element soaks up all cumulative rounding error, so block
// order changes output.
//
// When TotalMarks is zero the whole-question rescale is skipped but part
// fixing still runs. In degenerate regimes (more questions than total
// marks) the 1-mark floor wins over the exact total; the result is
// deterministic but the total may overshoot.
func Apply(def *model.TestDefinition, strategy ResidualStrategy) {
	rescaleQuestions(def, strategy)
	for i := range def.Blocks {
		if def.Blocks[i].IsQuestion() {
			fixQuestionParts(&def.Blocks[i], strategy)
		}
	}
}

func rescaleQuestions(def *model.TestDefinition, strategy ResidualStrategy) {
	var qIdx []int
	qSum := 0
	for i, b := range def.Blocks {
		if b.IsQuestion() {
			qIdx = append(qIdx, i)
			qSum += b.Marks
		}
	}
	if len(qIdx) == 0 || def.TotalMarks == 0 || qSum == def.TotalMarks {
		return
	}

	residual := residualIndex(def.Blocks, qIdx, strategy)
	factor := float64(def.TotalMarks) / float64(maxInt(1, qSum))

	running := 0
	for _, i := range qIdx {
		if i == residual {
			continue
		}
		q := &def.Blocks[i]
		q.Marks = maxInt(1, int(math.Round(float64(q.Marks)*factor)))
		running += q.Marks
	}
	def.Blocks[residual].Marks = maxInt(1, def.TotalMarks-running)
}

// fixQuestionParts redistributes part marks to sum to the question's
// (possibly just-rescaled) marks. Questions without parts and questions
// whose parts already sum correctly are left untouched.
func fixQuestionParts(q *model.Block, strategy ResidualStrategy) {
	if len(q.Parts) == 0 {
		return
	}
	sum := 0
	for _, p := range q.Parts {
		sum += p.Marks
	}
	if sum == q.Marks {
		return
	}

	residual := len(q.Parts) - 1
	if strategy == ResidualLargest {
		largest := q.Parts[0].Marks
		residual = 0
		for i, p := range q.Parts {
			if p.Marks > largest {
				largest = p.Marks
				residual = i
			}
		}
	}

	target := q.Marks
	running := 0
	for i := range q.Parts {
		if i == residual {
			continue
		}
		p := &q.Parts[i]
		p.Marks = maxInt(1, int(math.Round(float64(p.Marks)/float64(maxInt(1, sum))*float64(target))))
		running += p.Marks
	}
	q.Parts[residual].Marks = maxInt(1, target-running)
}

// residualIndex picks the block index that absorbs the rounding residual.
func residualIndex(blocks []model.Block, qIdx []int, strategy ResidualStrategy) int {
	if strategy == ResidualLargest {
		best := qIdx[0]
		for _, i := range qIdx {
			if blocks[i].Marks > blocks[best].Marks {
				best = i
			}
		}
		return best
	}
	return qIdx[len(qIdx)-1]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
