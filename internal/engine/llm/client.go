// Package llm provides model-generated resolution hints for predicted conflicts.
package llm

import (
	"context"
)

// Hint is a per-path resolution suggestion produced by the model.
type Hint struct {
	Path string `json:"path"`
	Hint string `json:"hint"`
}

// Client abstracts LLM API interaction for testability.
type Client interface {
	// Explain sends a prompt to the LLM and returns resolution hints.
	Explain(ctx context.Context, prompt string) ([]Hint, error)
}
