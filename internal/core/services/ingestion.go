package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// ingestionService accepts uploads at the ingestion boundary: it validates
// the document, persists it, and hands the heavy lifting to a queued job.
type ingestionService struct {
	documentStore driven.DocumentStore
	taskQueue     driven.TaskQueue
	logger        *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(
	documentStore driven.DocumentStore,
	taskQueue driven.TaskQueue,
	logger *slog.Logger,
) driving.IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestionService{
		documentStore: documentStore,
		taskQueue:     taskQueue,
		logger:        logger,
	}
}

// Submit validates and persists a document, then enqueues its ingestion job.
func (s *ingestionService) Submit(ctx context.Context, doc *domain.Document) (*domain.IngestionJob, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrMalformedInput)
	}
	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("%w: empty document id", domain.ErrMalformedInput)
	}
	if strings.TrimSpace(doc.Filename) == "" {
		return nil, fmt.Errorf("%w: empty filename", domain.ErrMalformedInput)
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}

	if err := s.documentStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if err := s.documentStore.UpdateStatus(ctx, doc.ID, domain.JobStateReceived, ""); err != nil {
		return nil, fmt.Errorf("record status for %s: %w", doc.ID, err)
	}

	job := domain.NewIngestionJob(doc.ID, doc.Filename)
	if err := s.taskQueue.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue ingestion job for %s: %w", doc.ID, err)
	}

	s.logger.Info("document submitted",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"job_id", job.ID,
		"text_len", len(doc.Text),
	)

	return job, nil
}

// Status returns the recorded ingestion status for a document ID.
func (s *ingestionService) Status(ctx context.Context, documentID string) (*domain.IngestionStatus, error) {
	return s.documentStore.GetStatus(ctx, documentID)
}
