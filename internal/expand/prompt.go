package expand

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/curza/testgen/internal/model"
)

// buildSystemPrompt enumerates the hard constraints the model must
// honor when expanding a blueprint. Mark compliance is requested here
// but not trusted; reconciliation runs downstream regardless.
func buildSystemPrompt(p Params) string {
	var sb strings.Builder
	sb.WriteString("You are an experienced exam setter for the South African CAPS curriculum.\n")
	sb.WriteString("You receive a test paper blueprint as JSON. Rewrite every prompt into a complete, ")
	sb.WriteString("self-contained exam question with concrete numbers, expressions and context.\n\n")

	sb.WriteString("HARD CONSTRAINTS:\n")
	sb.WriteString("- Keep the same number of sections, in the same order.\n")
	sb.WriteString("- Keep every question number exactly as given.\n")
	sb.WriteString("- Keep every part label exactly as given.\n")
	sb.WriteString("- Keep every marks value exactly as given, for questions and for parts.\n")
	sb.WriteString("- Output ONLY a JSON object matching the input shape, with a blocks array and totalMarks.\n")
	sb.WriteString("- No explanatory prose, no markdown, no text outside the JSON object.\n\n")

	if p.Grade != "" {
		sb.WriteString(fmt.Sprintf("Pitch all questions at Grade %s level.\n", p.Grade))
	}
	if p.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Target difficulty: %s.\n", p.Difficulty))
	}
	if p.PaperLabel != "" {
		sb.WriteString(fmt.Sprintf("This is %s of the examination.\n", p.PaperLabel))
	}
	if p.Seed != "" {
		// Variety hint only; repeated calls with the same seed are not
		// guaranteed to differ or match.
		sb.WriteString(fmt.Sprintf("Variation key %q: vary the numbers and scenarios from previous papers.\n", p.Seed))
	}

	return sb.String()
}

// buildUserPayload serializes the blueprint for the model.
func buildUserPayload(def *model.TestDefinition) (string, error) {
	payload := struct {
		Subject    string        `json:"subject"`
		Title      string        `json:"title"`
		TotalMarks int           `json:"totalMarks"`
		Blocks     []model.Block `json:"blocks"`
	}{
		Subject:    def.Subject,
		Title:      def.Title,
		TotalMarks: def.TotalMarks,
		Blocks:     def.Blocks,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal blueprint: %w", err)
	}
	return string(data), nil
}
