package driving

import (
	"context"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

// IngestionService accepts uploaded documents and tracks their indexing state
type IngestionService interface {
	// Submit validates an extracted document, persists it, and enqueues an
	// ingestion job. Re-submitting a completed document ID re-runs the full
	// pipeline and upserts over existing records.
	Submit(ctx context.Context, doc *domain.Document) (*domain.IngestionJob, error)

	// Status returns the queryable ingestion status for a document ID
	Status(ctx context.Context, documentID string) (*domain.IngestionStatus, error)
}
