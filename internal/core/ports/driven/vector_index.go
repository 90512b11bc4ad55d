package driven

import (
	"context"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

// VectorIndex persists chunk embeddings in named collections and answers
// similarity queries. The similarity metric and dimensionality are fixed per
// collection at creation time.
type VectorIndex interface {
	// EnsureCollection creates the named collection with the given
	// dimensionality if it does not exist. Returns ErrDimensionMismatch if
	// the collection exists with a different dimensionality.
	EnsureCollection(ctx context.Context, collection string, dimensions int) error

	// Upsert writes records keyed by chunk ID. Records sharing a key with an
	// existing one overwrite it; repeating an upsert has no effect beyond the
	// final state.
	Upsert(ctx context.Context, collection string, records []domain.IndexRecord) error

	// Search returns up to topK records in descending similarity order.
	// A collection holding fewer matching records returns fewer results,
	// never an error.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]domain.ScoredRecord, error)

	// Reset deletes all records in the collection. Resetting an absent
	// collection is a no-op.
	Reset(ctx context.Context, collection string) error

	// HealthCheck verifies the vector store is reachable
	HealthCheck(ctx context.Context) error
}
