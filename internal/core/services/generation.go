package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

const (
	// systemPrompt constrains the model to the retrieved context
	systemPrompt = "Answer the question using only the provided context."

	// InsufficientInformationAnswer is returned without calling the backend
	// when retrieval found nothing, instead of letting the model fabricate
	// an answer.
	InsufficientInformationAnswer = "No relevant information was found in the indexed documents to answer this question."
)

// AnswerGenerator builds a deterministic prompt from the question and its
// retrieved context and calls the generation backend once per request,
// retrying transient failures with backoff.
type AnswerGenerator struct {
	llm    driven.GenerationService
	logger *slog.Logger

	maxAttempts int
	baseBackoff time.Duration
}

// NewAnswerGenerator creates a new AnswerGenerator.
func NewAnswerGenerator(llm driven.GenerationService, logger *slog.Logger) *AnswerGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerGenerator{
		llm:         llm,
		logger:      logger,
		maxAttempts: 3,
		baseBackoff: 500 * time.Millisecond,
	}
}

// Generate synthesizes an answer grounded on the retrieved context. An empty
// context short-circuits to the fixed insufficient-information answer without
// touching the backend.
func (g *AnswerGenerator) Generate(ctx context.Context, question string, rc domain.RetrievedContext) (*domain.Answer, error) {
	if rc.Empty() {
		return &domain.Answer{
			Text:      InsufficientInformationAnswer,
			Context:   rc,
			Generated: false,
		}, nil
	}

	prompt := buildPrompt(question, rc)

	var text string
	var err error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		text, err = g.llm.Complete(ctx, systemPrompt, prompt)
		if err == nil {
			break
		}
		if !domain.IsRetryable(err) {
			// Authentication or invalid-request failures are fatal
			return nil, fmt.Errorf("generate answer: %w", err)
		}
		if attempt == g.maxAttempts {
			break
		}

		backoff := g.baseBackoff * time.Duration(1<<(attempt-1))
		g.logger.Warn("generation attempt failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("generate answer: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %d attempts: %v", domain.ErrGenerationFailed, g.maxAttempts, err)
	}

	return &domain.Answer{
		Text:        strings.TrimSpace(text),
		Context:     rc,
		Sources:     rc.Sources(),
		NumContexts: len(rc.Passages),
		Generated:   true,
	}, nil
}

// buildPrompt renders the fixed template: instructions, labeled context
// passages, then the question.
func buildPrompt(question string, rc domain.RetrievedContext) string {
	var b strings.Builder
	b.WriteString("Use the following context to answer the question.\nContext:\n")
	for i, p := range rc.Passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("- ")
		b.WriteString(p.Text)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer concisely based on the context provided.")
	return b.String()
}
