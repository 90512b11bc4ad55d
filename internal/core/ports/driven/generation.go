package driven

import (
	"context"
)

// GenerationService produces answer text from an assembled prompt.
// Implementations call an OpenAI-compatible chat completions endpoint.
type GenerationService interface {
	// Complete sends one system + user message pair and returns the
	// generated text. Exactly one backend call per invocation; the caller
	// owns retry policy.
	Complete(ctx context.Context, system, user string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the generation backend is available
	Ping(ctx context.Context) error

	// Close releases resources held by the generation service
	Close() error
}
