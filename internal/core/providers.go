package core

import "context"

// Generator produces text completions. Implementations must be safe
// for concurrent use.
type Generator interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
	// CompleteStream yields the answer as incremental chunks. The
	// concatenation of all chunks equals Complete's output for the
	// same inputs and deterministic settings.
	CompleteStream(ctx context.Context, prompt string, temperature float64, maxTokens int) (<-chan StreamChunk, error)
}

// StreamChunk is one increment of a streaming completion.
type StreamChunk struct {
	Content string
	Err     error
}

// VectorStore answers nearest-neighbor queries over the knowledge base.
// An empty result is not an error. Implementations must be safe for
// concurrent use.
type VectorStore interface {
	Query(ctx context.Context, text string, topK int) ([]Passage, error)
	Count(ctx context.Context) (int, error)
}
