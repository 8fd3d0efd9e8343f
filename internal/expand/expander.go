// Package expand turns a blueprint's skill descriptions into full exam
// wording via the external generative text service. Expansion is
// best-effort: any failure is returned as an error the caller maps to
// "serve the blueprint instead". Test delivery never blocks on an
// unavailable model.
package expand

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/curza/testgen/internal/llm"
	"github.com/curza/testgen/internal/model"
)

const (
	defaultMaxTokens   = 8192
	defaultTemperature = 0.7
)

// Params tune a single expansion call. Seed is a variety hint only.
type Params struct {
	Difficulty string
	Grade      string
	PaperLabel string
	Seed       string
}

// Expander rewrites blueprint prompts into concrete exam questions.
type Expander struct {
	provider llm.Provider
}

// New creates an Expander backed by the given provider.
func New(provider llm.Provider) *Expander {
	return &Expander{provider: provider}
}

// Expand sends the blueprint to the model and returns a new definition
// with the expanded blocks. The input definition is never mutated. On
// any failure (provider error, unparseable response, missing or empty
// blocks) it returns a wrapped model.ErrUpstreamGeneration; the caller
// decides the fallback. Mark preservation is NOT checked here; the
// reconciler restores totals downstream.
func (e *Expander) Expand(ctx context.Context, def *model.TestDefinition, p Params) (*model.TestDefinition, error) {
	user, err := buildUserPayload(def)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamGeneration, err)
	}

	req := llm.Request{
		System:      buildSystemPrompt(p),
		User:        user,
		Schema:      paperSchema,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		slog.Warn("content expansion call failed",
			"subject", def.Subject, "model", e.provider.ModelID(), "error", err)
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamGeneration, err)
	}

	var expanded struct {
		TotalMarks int           `json:"totalMarks"`
		Blocks     []model.Block `json:"blocks"`
	}
	if err := json.Unmarshal(resp.Content, &expanded); err != nil {
		slog.Warn("content expansion returned unparseable JSON",
			"subject", def.Subject, "error", err)
		return nil, fmt.Errorf("%w: parse response: %v", model.ErrUpstreamGeneration, err)
	}
	if len(expanded.Blocks) == 0 {
		slog.Warn("content expansion returned no blocks", "subject", def.Subject)
		return nil, fmt.Errorf("%w: response has no blocks", model.ErrUpstreamGeneration)
	}

	out := def.Clone()
	out.Blocks = expanded.Blocks
	return out, nil
}
