package driving

import (
	"context"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

// QueryOptions configures one question. Zero values fall back to the
// service defaults.
type QueryOptions struct {
	// TopK is the number of candidate chunks retrieved before budgeting
	TopK int `json:"top_k"`

	// MaxContextSize caps the total characters of context forwarded to the
	// generation backend
	MaxContextSize int `json:"max_context_size"`
}

// QueryService answers natural-language questions from indexed content
type QueryService interface {
	// Ask retrieves relevant context for the question and generates an
	// answer grounded on it. The answer carries the context used, for
	// traceability.
	Ask(ctx context.Context, question string, opts QueryOptions) (*domain.Answer, error)
}
