package services

import (
	"context"
	"errors"
	"testing"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven/mocks"
)

func indexTexts(t *testing.T, index *mocks.MockVectorIndex, embedder *mocks.MockEmbeddingService, docID string, texts ...string) {
	t.Helper()
	embeddings, err := embedder.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := make([]domain.IndexRecord, len(texts))
	for i, text := range texts {
		records[i] = domain.IndexRecord{
			ChunkID:    domain.ChunkID(docID, i),
			DocumentID: docID,
			Seq:        i,
			Text:       text,
			Embedding:  embeddings[i],
		}
	}
	if err := index.Upsert(context.Background(), "docs", records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnswerContext_RanksRelevantChunkFirst(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	embedder := mocks.NewMockEmbeddingService()
	svc := NewRetrievalService(embedder, index, "docs", nil)

	indexTexts(t, index, embedder, "doc-a",
		"Revenue grew 15% in Q2 due to strong demand.",
		"The cafeteria menu now includes vegetarian options.",
	)

	rc, err := svc.AnswerContext(context.Background(), "What happened to revenue?", 5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rc.Empty() {
		t.Fatal("expected passages")
	}
	if rc.Passages[0].Text != "Revenue grew 15% in Q2 due to strong demand." {
		t.Errorf("expected revenue chunk first, got %q", rc.Passages[0].Text)
	}
	// Descending score order
	for i := 1; i < len(rc.Passages); i++ {
		if rc.Passages[i].Score > rc.Passages[i-1].Score {
			t.Errorf("expected descending scores, got %v then %v", rc.Passages[i-1].Score, rc.Passages[i].Score)
		}
	}
}

func TestAnswerContext_EmptyCollection(t *testing.T) {
	svc := NewRetrievalService(mocks.NewMockEmbeddingService(), mocks.NewMockVectorIndex(), "docs", nil)

	rc, err := svc.AnswerContext(context.Background(), "anything", 5, 0)
	if err != nil {
		t.Fatalf("expected empty context, got error %v", err)
	}
	if !rc.Empty() {
		t.Errorf("expected empty context, got %d passages", len(rc.Passages))
	}
}

func TestAnswerContext_FewerThanTopK(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	embedder := mocks.NewMockEmbeddingService()
	svc := NewRetrievalService(embedder, index, "docs", nil)

	indexTexts(t, index, embedder, "doc-a", "only one chunk here")

	rc, err := svc.AnswerContext(context.Background(), "one chunk", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rc.Passages) != 1 {
		t.Errorf("expected 1 passage, got %d", len(rc.Passages))
	}
}

func TestAnswerContext_BudgetDropsWholeChunks(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	embedder := mocks.NewMockEmbeddingService()
	svc := NewRetrievalService(embedder, index, "docs", nil)

	indexTexts(t, index, embedder, "doc-a",
		"alpha beta gamma delta",
		"alpha beta gamma",
		"alpha beta",
	)

	// Budget fits the top hit but not the second; nothing may be truncated
	rc, err := svc.AnswerContext(context.Background(), "alpha beta gamma delta", 5, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rc.Passages) != 1 {
		t.Fatalf("expected 1 passage within budget, got %d", len(rc.Passages))
	}
	if rc.Size() > 25 {
		t.Errorf("expected context within budget, got %d chars", rc.Size())
	}
	if rc.Passages[0].Text != "alpha beta gamma delta" {
		t.Errorf("expected highest-scored chunk kept whole, got %q", rc.Passages[0].Text)
	}
}

func TestAnswerContext_BudgetCountsRunes(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	embedder := mocks.NewMockEmbeddingService()
	svc := NewRetrievalService(embedder, index, "docs", nil)

	// 14 runes, 34 bytes: fits a 20-rune budget only if the budget is
	// counted in the same unit the chunker windows in
	indexTexts(t, index, embedder, "doc-a", "売上 高は 前年 比で 増加")

	rc, err := svc.AnswerContext(context.Background(), "売上", 5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rc.Passages) != 1 {
		t.Fatalf("expected multibyte passage within budget, got %d passages", len(rc.Passages))
	}
	if rc.Size() > 20 {
		t.Errorf("expected context within budget, got size %d", rc.Size())
	}
}

func TestAnswerContext_EmbeddingFailureSurfaced(t *testing.T) {
	embedder := mocks.NewMockEmbeddingService()
	svc := NewRetrievalService(embedder, mocks.NewMockVectorIndex(), "docs", nil)

	embedder.SetFailNext(domain.ErrEmbeddingUnavailable)

	_, err := svc.AnswerContext(context.Background(), "anything", 5, 0)
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
	}
	// Exactly one attempt on the interactive path
	if embedder.Calls() != 1 {
		t.Errorf("expected a single embed attempt, got %d", embedder.Calls())
	}
}
