package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

// MockTaskQueue is an in-memory TaskQueue for testing
type MockTaskQueue struct {
	mu       sync.Mutex
	pending  []*domain.IngestionJob
	jobs     map[string]*domain.IngestionJob
	failNext error
}

// NewMockTaskQueue creates a new MockTaskQueue
func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{
		jobs: make(map[string]*domain.IngestionJob),
	}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, job *domain.IngestionJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.jobs[job.ID] = job
	m.pending = append(m.pending, job)
	return nil
}

func (m *MockTaskQueue) Dequeue(ctx context.Context) (*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, job := range m.pending {
		if !job.IsReady() {
			continue
		}
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		job.MarkStarted()
		return job, nil
	}
	return nil, nil
}

func (m *MockTaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.IngestionJob, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Millisecond):
	}
	return m.Dequeue(ctx)
}

func (m *MockTaskQueue) Ack(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[jobID]; ok {
		job.MarkCompleted()
	}
	return nil
}

func (m *MockTaskQueue) Nack(ctx context.Context, jobID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if job.CanRetry() {
		job.Retry(reason)
		m.pending = append(m.pending, job)
	} else {
		job.MarkFailed(reason)
	}
	return nil
}

func (m *MockTaskQueue) Fail(ctx context.Context, jobID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.MarkFailed(reason)
	return nil
}

func (m *MockTaskQueue) GetJob(ctx context.Context, jobID string) (*domain.IngestionJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return job, nil
}

func (m *MockTaskQueue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &driven.QueueStats{}
	for _, job := range m.jobs {
		switch job.State {
		case domain.JobStateCompleted:
			stats.CompletedCount++
		case domain.JobStateFailed:
			stats.FailedCount++
		default:
			stats.PendingCount++
		}
	}
	return stats, nil
}

func (m *MockTaskQueue) Ping(ctx context.Context) error {
	return nil
}

func (m *MockTaskQueue) Close() error {
	return nil
}

// Helper methods for testing

// SetFailNext makes the next Enqueue call fail with the given error.
func (m *MockTaskQueue) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// PendingLen returns the number of queued jobs.
func (m *MockTaskQueue) PendingLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
