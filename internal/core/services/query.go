package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driving"
)

// Ensure queryService implements QueryService
var _ driving.QueryService = (*queryService)(nil)

// CouldNotAnswerText is returned when retrieval or generation fails after
// retries. The failure is logged; callers get a degraded result instead of
// an error crossing the system boundary.
const CouldNotAnswerText = "Could not generate an answer. Please try again later."

// queryService is the synchronous question-answering path: retrieval followed
// by a single generation round.
type queryService struct {
	retrieval *RetrievalService
	generator *AnswerGenerator
	logger    *slog.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(retrieval *RetrievalService, generator *AnswerGenerator, logger *slog.Logger) driving.QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryService{
		retrieval: retrieval,
		generator: generator,
		logger:    logger,
	}
}

// Ask answers a question from indexed content. Infrastructure failures
// surface as a degraded answer, not an error; the context used is always
// attached for traceability.
func (s *queryService) Ask(ctx context.Context, question string, opts driving.QueryOptions) (*domain.Answer, error) {
	start := time.Now()

	rc, err := s.retrieval.AnswerContext(ctx, question, opts.TopK, opts.MaxContextSize)
	if err != nil {
		// Single failed attempt on the interactive path, no background retry
		s.logger.Error("retrieval failed", "error", err)
		return &domain.Answer{Text: CouldNotAnswerText}, nil
	}

	answer, err := s.generator.Generate(ctx, question, rc)
	if err != nil {
		s.logger.Error("generation failed", "error", err)
		return &domain.Answer{Text: CouldNotAnswerText, Context: rc}, nil
	}

	s.logger.Info("question answered",
		"passages", len(rc.Passages),
		"generated", answer.Generated,
		"took", time.Since(start),
	)
	return answer, nil
}
