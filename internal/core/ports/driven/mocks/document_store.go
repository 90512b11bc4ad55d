package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*MockDocumentStore)(nil)

// MockDocumentStore is an in-memory DocumentStore for testing
type MockDocumentStore struct {
	mu       sync.RWMutex
	docs     map[string]*domain.Document
	statuses map[string]*domain.IngestionStatus
	failNext error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		docs:     make(map[string]*domain.Document),
		statuses: make(map[string]*domain.IngestionStatus),
	}
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *MockDocumentStore) UpdateStatus(ctx context.Context, id string, state domain.JobState, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.statuses[id] = &domain.IngestionStatus{
		DocumentID: id,
		State:      state,
		Error:      reason,
		UpdatedAt:  time.Now(),
	}
	return nil
}

func (m *MockDocumentStore) GetStatus(ctx context.Context, id string) (*domain.IngestionStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.statuses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *status
	return &copied, nil
}

func (m *MockDocumentStore) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []*domain.Document
	for _, d := range m.docs {
		copied := *d
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadedAt.After(docs[j].UploadedAt) })
	if offset >= len(docs) {
		return nil, nil
	}
	docs = docs[offset:]
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *MockDocumentStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs), nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	delete(m.statuses, id)
	return nil
}

func (m *MockDocumentStore) takeFailure() error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}

// Helper methods for testing

// SetFailNext makes the next store call fail with the given error.
func (m *MockDocumentStore) SetFailNext(err error) {
	m.failNext = err
}

// StatusOf returns the recorded status for a document without copying.
func (m *MockDocumentStore) StatusOf(id string) *domain.IngestionStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statuses[id]
}
