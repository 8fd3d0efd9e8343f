package expand

import "github.com/curza/testgen/internal/llm"

// paperSchema mirrors the blueprint's wire shape. The model must return
// the same block structure it was given, expanded in wording only.
var paperSchema = &llm.Schema{
	Name:        "expanded-test-paper",
	Description: "A test paper with the given structure and marks, with prompts rewritten as full exam questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"totalMarks": map[string]any{
				"type":        "integer",
				"description": "Total marks of the paper, unchanged from the input",
			},
			"blocks": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    blockSchema,
			},
		},
		"required":             []any{"blocks", "totalMarks"},
		"additionalProperties": false,
	},
}

var blockSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"kind": map[string]any{
			"type": "string",
			"enum": []any{"section", "question"},
		},
		"title":        map[string]any{"type": "string"},
		"instructions": map[string]any{"type": "string"},
		"headerMarks":  map[string]any{"type": "integer"},
		"number":       map[string]any{"type": "string"},
		"marks":        map[string]any{"type": "integer", "minimum": 1},
		"prompt": map[string]any{
			"type":        "string",
			"description": "The full exam-style question statement with concrete numbers and expressions",
		},
		"parts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"label":  map[string]any{"type": "string"},
					"marks":  map[string]any{"type": "integer", "minimum": 1},
					"prompt": map[string]any{"type": "string"},
					"type":   map[string]any{"type": "string"},
					"options": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"label": map[string]any{"type": "string"},
								"text":  map[string]any{"type": "string"},
							},
							"required": []any{"label", "text"},
						},
					},
				},
				"required": []any{"label", "marks", "prompt"},
			},
		},
		"resources": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":    map[string]any{"type": "string", "enum": []any{"image", "table", "formula"}},
					"locator": map[string]any{"type": "string"},
					"text":    map[string]any{"type": "string"},
				},
				"required": []any{"kind"},
			},
		},
	},
	"required": []any{"kind"},
}
