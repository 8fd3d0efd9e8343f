package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over the external generative text service.
// Paper generation is single-turn: one system instruction, one user
// payload, structured JSON back.
type Provider interface {
	// Generate sends the request and returns a structured response. When
	// the request carries a Schema, the returned Content is JSON that has
	// been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and hard constraints.
	System string

	// User is the serialized payload the model expands.
	User string

	// Schema, when set, is the JSON Schema the response must conform to.
	Schema *Schema

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness, 0.0 to 1.0.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema to the provider. Kebab-case.
	Name string

	// Description guides generation; sent to the model.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated JSON (schema-validated when a Schema was
	// set on the request).
	Content json.RawMessage

	// Usage reports token consumption for this call.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
