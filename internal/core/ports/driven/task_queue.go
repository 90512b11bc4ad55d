package driven

import (
	"context"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

// TaskQueue provides durable queuing for ingestion jobs with at-least-once
// delivery. Re-delivery is safe because indexing is an idempotent upsert.
type TaskQueue interface {
	// Enqueue adds a job to the queue for processing.
	// Jobs scheduled in the future are held back until due.
	Enqueue(ctx context.Context, job *domain.IngestionJob) error

	// Dequeue retrieves the next available job for processing.
	// This should block until a job is available or context is cancelled.
	// The job is marked as processing and will not be returned to other workers.
	Dequeue(ctx context.Context) (*domain.IngestionJob, error)

	// DequeueWithTimeout retrieves the next available job, waiting up to
	// timeout seconds. Returns nil, nil if the timeout elapses with no jobs.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.IngestionJob, error)

	// Ack acknowledges successful completion of a job.
	Ack(ctx context.Context, jobID string) error

	// Nack indicates the job failed transiently; it is rescheduled with
	// backoff, or marked failed once its retry budget is exhausted.
	Nack(ctx context.Context, jobID string, reason string) error

	// Fail marks a job failed without retry, for fatal errors such as
	// malformed input.
	Fail(ctx context.Context, jobID string, reason string) error

	// GetJob retrieves a job by ID (for status checking).
	GetJob(ctx context.Context, jobID string) (*domain.IngestionJob, error)

	// Stats returns queue statistics.
	Stats(ctx context.Context) (*QueueStats, error)

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}

// QueueStats contains queue statistics
type QueueStats struct {
	// PendingCount is the number of jobs waiting to be processed
	PendingCount int64 `json:"pending_count"`

	// ProcessingCount is the number of jobs currently being processed
	ProcessingCount int64 `json:"processing_count"`

	// CompletedCount is the number of successfully completed jobs
	CompletedCount int64 `json:"completed_count"`

	// FailedCount is the number of jobs that failed after all retries
	FailedCount int64 `json:"failed_count"`
}
