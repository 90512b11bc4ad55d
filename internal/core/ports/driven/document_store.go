package driven

import (
	"context"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

// DocumentStore persists uploaded documents and their per-document ingestion
// status. The extracted text lives here so a worker can re-run a job without
// the original upload.
type DocumentStore interface {
	// Save creates or updates a document (idempotent by ID)
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID; ErrNotFound if absent
	Get(ctx context.Context, id string) (*domain.Document, error)

	// UpdateStatus records the ingestion state for a document. Failures are
	// recorded with their reason so status stays queryable.
	UpdateStatus(ctx context.Context, id string, state domain.JobState, reason string) error

	// GetStatus retrieves the ingestion status for a document
	GetStatus(ctx context.Context, id string) (*domain.IngestionStatus, error)

	// List retrieves documents ordered by upload time, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)

	// Count returns the total number of documents
	Count(ctx context.Context) (int, error)

	// Delete removes a document and its status record
	Delete(ctx context.Context, id string) error
}
