package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

var _ driven.VectorIndex = (*MockVectorIndex)(nil)

// MockVectorIndex is an in-memory VectorIndex for testing. It stores records
// per collection keyed by chunk ID and ranks searches by cosine similarity.
type MockVectorIndex struct {
	mu          sync.RWMutex
	collections map[string]int // collection -> dimensions
	records     map[string]map[string]domain.IndexRecord
	failNext    error
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		collections: make(map[string]int),
		records:     make(map[string]map[string]domain.IndexRecord),
	}
}

func (m *MockVectorIndex) EnsureCollection(ctx context.Context, collection string, dimensions int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	if existing, ok := m.collections[collection]; ok {
		if existing != dimensions {
			return domain.ErrDimensionMismatch
		}
		return nil
	}
	m.collections[collection] = dimensions
	m.records[collection] = make(map[string]domain.IndexRecord)
	return nil
}

func (m *MockVectorIndex) Upsert(ctx context.Context, collection string, records []domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	dims, ok := m.collections[collection]
	if !ok {
		if len(records) == 0 {
			return nil
		}
		dims = len(records[0].Embedding)
		m.collections[collection] = dims
		m.records[collection] = make(map[string]domain.IndexRecord)
	}
	for _, r := range records {
		if len(r.Embedding) != dims {
			return domain.ErrDimensionMismatch
		}
		m.records[collection][r.ChunkID] = r
	}
	return nil
}

func (m *MockVectorIndex) Search(ctx context.Context, collection string, vector []float32, topK int) ([]domain.ScoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	dims, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}
	if len(vector) != dims {
		return nil, domain.ErrDimensionMismatch
	}

	var scored []domain.ScoredRecord
	for _, r := range m.records[collection] {
		scored = append(scored, domain.ScoredRecord{Record: r, Score: cosine(vector, r.Embedding)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func (m *MockVectorIndex) Reset(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	delete(m.collections, collection)
	delete(m.records, collection)
	return nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockVectorIndex) takeFailure() error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Helper methods for testing

// SetFailNext makes the next index call fail with the given error.
func (m *MockVectorIndex) SetFailNext(err error) {
	if err == nil {
		err = domain.ErrIndexUnavailable
	}
	m.failNext = err
}

// Count returns the number of records stored in a collection.
func (m *MockVectorIndex) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records[collection])
}

// Records returns all records in a collection keyed by chunk ID.
func (m *MockVectorIndex) Records(collection string) map[string]domain.IndexRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.IndexRecord, len(m.records[collection]))
	for k, v := range m.records[collection] {
		out[k] = v
	}
	return out
}
