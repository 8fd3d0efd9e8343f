package blueprint

import (
	"strings"

	"github.com/curza/testgen/internal/model"
)

// templateKey addresses a paper template. Lookups normalize case and
// whitespace; any key without a dedicated table falls back to the
// default template.
type templateKey struct {
	subject  string
	examType string
}

// paperTemplate is a hand-authored exam skeleton. The prompt fields are
// short skill descriptions, not finished questions; content expansion
// rewrites them into full exam wording with the marks untouched.
type paperTemplate struct {
	paperLabel      string
	totalMarks      int
	durationSeconds int
	blocks          []model.Block
}

const examTypePaper1 = "paper1"

func normalizeKey(subject, examType string) templateKey {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), ""))
	}
	return templateKey{subject: norm(subject), examType: norm(examType)}
}

// mathsPaper1 is the CAPS Mathematics Paper 1 table: 100 marks over
// three sections, three hours when timed.
var mathsPaper1 = paperTemplate{
	paperLabel:      "Paper 1",
	totalMarks:      100,
	durationSeconds: 3 * 60 * 60,
	blocks: []model.Block{
		{
			Kind:         model.KindSection,
			Title:        "SECTION A: Algebra, Equations and Inequalities",
			Instructions: "Answer ALL questions. Show ALL calculations. Round answers to TWO decimal places unless stated otherwise.",
			HeaderMarks:  40,
		},
		{
			Kind: model.KindQuestion, Number: "1", Marks: 25,
			Prompt: "Solving equations and manipulating algebraic expressions",
			Parts: []model.QuestionPart{
				{Label: "1.1", Marks: 8, Prompt: "Solve quadratic equations by factorisation and by the quadratic formula"},
				{Label: "1.2", Marks: 9, Prompt: "Solve a pair of simultaneous equations, one linear and one quadratic"},
				{Label: "1.3", Marks: 8, Prompt: "Simplify expressions involving exponents and surds"},
			},
		},
		{
			Kind: model.KindQuestion, Number: "2", Marks: 15,
			Prompt: "Number patterns and sequences",
			Parts: []model.QuestionPart{
				{Label: "2.1", Marks: 8, Prompt: "Determine the general term of a linear or quadratic number pattern"},
				{Label: "2.2", Marks: 7, Prompt: "Use the general term to find a specified term and justify whether a value appears in the sequence"},
			},
		},
		{
			Kind:         model.KindSection,
			Title:        "SECTION B: Functions and Graphs",
			Instructions: "Clearly label all axes, intercepts, turning points and asymptotes.",
			HeaderMarks:  35,
		},
		{
			Kind: model.KindQuestion, Number: "3", Marks: 20,
			Prompt: "Sketching and analysing standard functions",
			Parts: []model.QuestionPart{
				{Label: "3.1", Marks: 6, Prompt: "Sketch a parabola from its equation, showing intercepts and turning point"},
				{Label: "3.2", Marks: 7, Prompt: "Determine the equation of a hyperbola from given points and asymptotes"},
				{Label: "3.3", Marks: 7, Prompt: "Interpret an exponential function, including its range and transformations"},
			},
		},
		{
			Kind: model.KindQuestion, Number: "4", Marks: 15,
			Prompt: "Interpretation of combined graphs",
			Parts: []model.QuestionPart{
				{Label: "4.1", Marks: 8, Prompt: "Read off points of intersection and lengths between graphs"},
				{Label: "4.2", Marks: 7, Prompt: "Determine the values of x for which one graph lies above another"},
			},
		},
		{
			Kind:         model.KindSection,
			Title:        "SECTION C: Finance, Growth and Probability",
			Instructions: "Use the formula sheet provided where applicable.",
			HeaderMarks:  25,
		},
		{
			Kind: model.KindQuestion, Number: "5", Marks: 13,
			Prompt: "Financial mathematics",
			Parts: []model.QuestionPart{
				{Label: "5.1", Marks: 6, Prompt: "Calculate accumulated amounts under simple and compound interest"},
				{Label: "5.2", Marks: 7, Prompt: "Solve problems involving inflation, exchange rates or hire purchase"},
			},
			Resources: []model.QuestionResource{
				{Kind: model.ResourceFormula, Text: "A = P(1 + i)^n ; A = P(1 + in)"},
			},
		},
		{
			Kind: model.KindQuestion, Number: "6", Marks: 12,
			Prompt: "Probability",
			Parts: []model.QuestionPart{
				{Label: "6.1", Marks: 6, Prompt: "Use Venn diagrams to determine probabilities of combined events"},
				{Label: "6.2", Marks: 6, Prompt: "Identify mutually exclusive and complementary events and apply the addition rule"},
			},
		},
	},
}

// paperTemplates is the immutable template registry, loaded once at
// process start. New subjects and papers get their own entries; lookup
// misses fall back to defaultTemplate.
var paperTemplates = map[templateKey]*paperTemplate{
	{subject: "mathematics", examType: examTypePaper1}: &mathsPaper1,
	{subject: "mathematics", examType: ""}:             &mathsPaper1,
}

var defaultTemplate = &mathsPaper1

// lookupTemplate resolves a template for the given subject and exam
// type, falling back to the default table.
func lookupTemplate(subject, examType string) *paperTemplate {
	if t, ok := paperTemplates[normalizeKey(subject, examType)]; ok {
		return t
	}
	return defaultTemplate
}
