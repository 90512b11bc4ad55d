package mocks

import (
	"context"
	"math"
	"sync"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*MockEmbeddingService)(nil)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing.
// Embeddings are deterministic per input text, and texts sharing words produce
// closer vectors than unrelated texts. Each distinct word gets its own
// dimension so similarity rankings are exact.
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	vocab      map[string]int
	failNext   error
	calls      int
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 256,
		model:      "mock-embedding-model",
		vocab:      make(map[string]int),
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.generateEmbedding(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := m.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// generateEmbedding builds a normalized bag-of-words vector so that texts
// with shared vocabulary score higher cosine similarity.
func (m *MockEmbeddingService) generateEmbedding(text string) []float32 {
	embedding := make([]float32, m.dimensions)
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) == 0 {
			return
		}
		embedding[m.wordIndex(string(word))]++
		word = word[:0]
	}
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' || r == '.' || r == ',' || r == '?' || r == '!' {
			flush()
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		word = append(word, r)
	}
	flush()

	var norm float64
	for _, v := range embedding {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range embedding {
			embedding[i] *= scale
		}
	}
	return embedding
}

func (m *MockEmbeddingService) wordIndex(word string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.vocab[word]
	if !ok {
		idx = len(m.vocab) % m.dimensions
		m.vocab[word] = idx
	}
	return idx
}

// Helper methods for testing

// SetFailNext makes the next Embed call fail with the given error.
func (m *MockEmbeddingService) SetFailNext(err error) {
	if err == nil {
		err = domain.ErrEmbeddingUnavailable
	}
	m.failNext = err
}

// Calls returns how many embed calls were made.
func (m *MockEmbeddingService) Calls() int {
	return m.calls
}
