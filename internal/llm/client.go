package llm

import "context"

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends a prompt and returns the raw text of the response.
	Complete(ctx context.Context, prompt string) (string, error)
}
