package services

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

// Default retrieval parameters. Top-k and the context budget follow the
// values the query boundary uses when no override is supplied.
const (
	DefaultTopK           = 5
	DefaultMaxContextSize = 4000
)

// RetrievalService embeds an incoming question, searches the vector index,
// and assembles a bounded context from the top matches.
type RetrievalService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	logger   *slog.Logger

	collection     string
	topK           int
	maxContextSize int
}

// NewRetrievalService creates a new RetrievalService for the given collection.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	collection string,
	logger *slog.Logger,
) *RetrievalService {
	if logger == nil {
		logger = slog.Default()
	}
	if collection == "" {
		collection = "docs"
	}
	return &RetrievalService{
		embedder:       embedder,
		index:          index,
		logger:         logger,
		collection:     collection,
		topK:           DefaultTopK,
		maxContextSize: DefaultMaxContextSize,
	}
}

// AnswerContext retrieves up to topK candidate chunks for the question and
// accumulates them in descending-score order until adding the next chunk
// would exceed maxContextSize. Chunks are never truncated mid-text. An empty
// result is valid: it means no relevant information was found.
func (s *RetrievalService) AnswerContext(ctx context.Context, question string, topK, maxContextSize int) (domain.RetrievedContext, error) {
	if topK <= 0 {
		topK = s.topK
	}
	if maxContextSize <= 0 {
		maxContextSize = s.maxContextSize
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("embed question: %w", err)
	}

	hits, err := s.index.Search(ctx, s.collection, queryVec, topK)
	if err != nil {
		return domain.RetrievedContext{}, fmt.Errorf("search collection %s: %w", s.collection, err)
	}

	var rc domain.RetrievedContext
	used := 0
	for _, hit := range hits {
		// Budget in runes, the same unit the chunker windows in
		size := utf8.RuneCountInString(hit.Record.Text)
		if used+size > maxContextSize {
			// Budget exhausted; drop this and all lower-scored candidates
			break
		}
		used += size
		rc.Passages = append(rc.Passages, domain.Passage{
			Text:       hit.Record.Text,
			Score:      hit.Score,
			DocumentID: hit.Record.DocumentID,
		})
	}

	s.logger.Debug("context assembled",
		"candidates", len(hits),
		"passages", len(rc.Passages),
		"context_chars", used,
	)
	return rc, nil
}
