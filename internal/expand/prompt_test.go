package expand

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptConstraints(t *testing.T) {
	prompt := buildSystemPrompt(Params{Grade: "11", Difficulty: "hard", PaperLabel: "Paper 1", Seed: "s1"})

	for _, want := range []string{
		"same number of sections",
		"question number exactly as given",
		"part label exactly as given",
		"marks value exactly as given",
		"ONLY a JSON object",
		"No explanatory prose",
		"Grade 11",
		"hard",
		"Paper 1",
		"s1",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptOptionalHints(t *testing.T) {
	prompt := buildSystemPrompt(Params{})
	if strings.Contains(prompt, "Target difficulty") {
		t.Error("prompt should omit difficulty hint when unset")
	}
	if strings.Contains(prompt, "Variation key") {
		t.Error("prompt should omit seed hint when unset")
	}
	if strings.Contains(prompt, "Pitch all questions") {
		t.Error("prompt should omit grade hint when unset")
	}
}

func TestBuildUserPayload(t *testing.T) {
	def := testBlueprint()
	payload, err := buildUserPayload(def)
	if err != nil {
		t.Fatalf("buildUserPayload: %v", err)
	}
	for _, want := range []string{`"subject":"Mathematics"`, `"totalMarks":10`, `"blocks":[`} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %s: %s", want, payload)
		}
	}
}
