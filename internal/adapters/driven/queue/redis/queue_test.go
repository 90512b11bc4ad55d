package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

func setupTestQueue(t *testing.T) *Queue {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	q, err := NewQueue(client, "test-worker")
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	return q
}

func TestNewQueue_RequiresClient(t *testing.T) {
	_, err := NewQueue(nil, "worker")
	if err == nil {
		t.Error("expected error for nil client")
	}
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job := domain.NewIngestionJob("doc-1", "report.pdf")
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a job")
	}
	if got.ID != job.ID || got.DocumentID != "doc-1" {
		t.Errorf("unexpected job: %+v", got)
	}
	if got.Attempts != 1 {
		t.Errorf("expected attempt recorded on dequeue, got %d", got.Attempts)
	}
	if got.StartedAt == nil {
		t.Error("expected StartedAt set on dequeue")
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q := setupTestQueue(t)

	got, err := q.DequeueWithTimeout(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected no job, got %+v", got)
	}
}

func TestQueue_AckCompletesJob(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job := domain.NewIngestionJob("doc-1", "report.pdf")
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Dequeue failed: job=%v err=%v", got, err)
	}

	if err := q.Ack(ctx, got.ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	stored, err := q.GetJob(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if stored.State != domain.JobStateCompleted {
		t.Errorf("expected completed, got %q", stored.State)
	}
	if stored.CompletedAt == nil {
		t.Error("expected CompletedAt set")
	}

	// Nothing left to process
	next, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if next != nil {
		t.Errorf("expected empty queue after ack, got %+v", next)
	}
}

func TestQueue_NackSchedulesRetry(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job := domain.NewIngestionJob("doc-1", "report.pdf")
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Dequeue failed: job=%v err=%v", got, err)
	}

	if err := q.Nack(ctx, got.ID, "embedding backend unreachable"); err != nil {
		t.Fatalf("Nack failed: %v", err)
	}

	stored, err := q.GetJob(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if stored.State != domain.JobStateReceived {
		t.Errorf("expected job rescheduled, got state %q", stored.State)
	}
	if stored.Error != "embedding backend unreachable" {
		t.Errorf("expected failure reason recorded, got %q", stored.Error)
	}
	if !stored.ScheduledFor.After(time.Now()) {
		t.Error("expected backoff delay before the next attempt")
	}

	// The delayed job is not delivered before its backoff elapses
	next, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if next != nil {
		t.Errorf("expected no job before backoff elapses, got %+v", next)
	}
}

func TestQueue_NackExhaustedFails(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job := domain.NewIngestionJob("doc-1", "report.pdf")
	job.MaxAttempts = 1
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Dequeue failed: job=%v err=%v", got, err)
	}

	if err := q.Nack(ctx, got.ID, "still failing"); err != nil {
		t.Fatalf("Nack failed: %v", err)
	}

	stored, err := q.GetJob(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if stored.State != domain.JobStateFailed {
		t.Errorf("expected failed after exhausted retries, got %q", stored.State)
	}
}

func TestQueue_FailSkipsRetries(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job := domain.NewIngestionJob("doc-1", "report.pdf")
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Dequeue failed: job=%v err=%v", got, err)
	}

	if err := q.Fail(ctx, got.ID, "document text is malformed"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}

	stored, err := q.GetJob(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if stored.State != domain.JobStateFailed {
		t.Errorf("expected failed, got %q", stored.State)
	}
	if stored.Error != "document text is malformed" {
		t.Errorf("expected reason recorded, got %q", stored.Error)
	}

	next, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if next != nil {
		t.Errorf("expected no requeue after Fail, got %+v", next)
	}
}

func TestQueue_ScheduledJobPromoted(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	job := domain.NewIngestionJob("doc-1", "report.pdf")
	job.ScheduledFor = time.Now().Add(50 * time.Millisecond)
	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	// Not due yet
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no job before schedule, got %+v", got)
	}

	time.Sleep(100 * time.Millisecond)

	got, err = q.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got == nil || got.ID != job.ID {
		t.Fatalf("expected promoted job, got %+v", got)
	}
}

func TestQueue_GetJobMissing(t *testing.T) {
	q := setupTestQueue(t)

	job, err := q.GetJob(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job != nil {
		t.Errorf("expected nil for unknown job, got %+v", job)
	}
}

func TestQueue_Stats(t *testing.T) {
	q := setupTestQueue(t)
	ctx := context.Background()

	if err := q.Enqueue(ctx, domain.NewIngestionJob("doc-1", "a.pdf")); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	completed := domain.NewIngestionJob("doc-2", "b.pdf")
	if err := q.Enqueue(ctx, completed); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	got, err := q.DequeueWithTimeout(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Dequeue failed: job=%v err=%v", got, err)
	}
	if err := q.Ack(ctx, got.ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	stats, err := q.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Errorf("expected 1 pending, got %d", stats.PendingCount)
	}
	if stats.CompletedCount != 1 {
		t.Errorf("expected 1 completed, got %d", stats.CompletedCount)
	}
}

func TestQueue_Ping(t *testing.T) {
	q := setupTestQueue(t)
	if err := q.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
