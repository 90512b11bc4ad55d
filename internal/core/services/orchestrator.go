package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/chunker"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

// IngestionOrchestrator runs the ingestion pipeline for one queued job:
//  1. Acquire the per-document lock (serializes runs for the same ID)
//  2. Load the stored document text
//  3. Chunk
//  4. Embed (batched)
//  5. Upsert into the vector index
//
// Each step's state is recorded against the document so status stays
// queryable. Any step may be re-executed after a crash; the idempotent upsert
// makes that safe.
type IngestionOrchestrator struct {
	documentStore driven.DocumentStore
	index         driven.VectorIndex
	embedder      driven.EmbeddingService
	lock          driven.DistributedLock
	chunker       *chunker.Chunker
	logger        *slog.Logger

	collection string
	batchSize  int
	lockTTL    time.Duration
}

// IngestionOrchestratorConfig holds dependencies for IngestionOrchestrator.
type IngestionOrchestratorConfig struct {
	DocumentStore driven.DocumentStore
	Index         driven.VectorIndex
	Embedder      driven.EmbeddingService
	Lock          driven.DistributedLock
	Chunker       *chunker.Chunker
	Logger        *slog.Logger

	// Collection is the index collection chunks are written to
	Collection string

	// BatchSize is how many chunk texts are embedded per backend call.
	// A throughput tunable only; output does not depend on it.
	BatchSize int

	// LockTTL bounds how long a crashed run keeps its document locked
	LockTTL time.Duration
}

// NewIngestionOrchestrator creates a new ingestion orchestrator.
func NewIngestionOrchestrator(cfg IngestionOrchestratorConfig) *IngestionOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Collection == "" {
		cfg.Collection = "docs"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}

	return &IngestionOrchestrator{
		documentStore: cfg.DocumentStore,
		index:         cfg.Index,
		embedder:      cfg.Embedder,
		lock:          cfg.Lock,
		chunker:       cfg.Chunker,
		logger:        logger,
		collection:    cfg.Collection,
		batchSize:     cfg.BatchSize,
		lockTTL:       cfg.LockTTL,
	}
}

// IngestDocument processes one ingestion job. Returned errors are classified:
// domain.IsRetryable errors should be nacked for backoff retry, anything else
// is fatal and the job must not be retried.
func (o *IngestionOrchestrator) IngestDocument(ctx context.Context, job *domain.IngestionJob) error {
	lockName := "ingest:" + job.DocumentID

	acquired, err := o.lock.Acquire(ctx, lockName, o.lockTTL)
	if err != nil {
		return fmt.Errorf("%w: acquire lock for %s: %v", domain.ErrIngestInProgress, job.DocumentID, err)
	}
	if !acquired {
		return fmt.Errorf("%w: document %s", domain.ErrIngestInProgress, job.DocumentID)
	}
	defer func() {
		if err := o.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			o.logger.Warn("failed to release ingest lock", "document_id", job.DocumentID, "error", err)
		}
	}()

	start := time.Now()
	o.logger.Info("starting ingestion",
		"job_id", job.ID,
		"document_id", job.DocumentID,
		"attempt", job.Attempts,
	)

	doc, err := o.documentStore.Get(ctx, job.DocumentID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", job.DocumentID, err)
	}

	// Chunking
	o.setStatus(ctx, job, domain.JobStateChunking, "")
	chunks := o.chunker.Chunk(doc.ID, doc.Text)
	if len(chunks) == 0 {
		// Zero-length document: a valid no-op, not a failure
		o.setStatus(ctx, job, domain.JobStateCompleted, "")
		o.logger.Info("document empty, nothing to index", "document_id", doc.ID)
		return nil
	}

	// Embedding
	o.setStatus(ctx, job, domain.JobStateEmbedding, "")
	embeddings, err := o.embedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed %d chunks for %s: %w", len(chunks), doc.ID, err)
	}

	// Indexing
	o.setStatus(ctx, job, domain.JobStateIndexing, "")
	if err := o.index.EnsureCollection(ctx, o.collection, o.embedder.Dimensions()); err != nil {
		return fmt.Errorf("ensure collection %s: %w", o.collection, err)
	}

	records := make([]domain.IndexRecord, len(chunks))
	for i, ch := range chunks {
		records[i] = domain.IndexRecord{
			ChunkID:    ch.ID,
			DocumentID: ch.DocumentID,
			Seq:        ch.Seq,
			Text:       ch.Text,
			Embedding:  embeddings[i],
		}
	}
	if err := o.index.Upsert(ctx, o.collection, records); err != nil {
		return fmt.Errorf("upsert %d records for %s: %w", len(records), doc.ID, err)
	}

	o.setStatus(ctx, job, domain.JobStateCompleted, "")
	o.logger.Info("ingestion completed",
		"job_id", job.ID,
		"document_id", doc.ID,
		"chunks", len(chunks),
		"duration", time.Since(start),
	)
	return nil
}

// FailDocument records a terminal failure against the document so the status
// stays queryable after the job is dropped from the queue.
func (o *IngestionOrchestrator) FailDocument(ctx context.Context, documentID, reason string) {
	if err := o.documentStore.UpdateStatus(ctx, documentID, domain.JobStateFailed, reason); err != nil {
		o.logger.Error("failed to record ingestion failure",
			"document_id", documentID,
			"reason", reason,
			"error", err,
		)
	}
}

// embedChunks embeds chunk texts in batches, preserving chunk order.
func (o *IngestionOrchestrator) embedChunks(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += o.batchSize {
		end := start + o.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = chunks[i].Text
		}

		batch, err := o.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d texts", domain.ErrEmbeddingUnavailable, len(batch), len(texts))
		}
		for _, emb := range batch {
			if len(emb) != o.embedder.Dimensions() {
				return nil, fmt.Errorf("%w: embedding has %d dimensions, model reports %d",
					domain.ErrDimensionMismatch, len(emb), o.embedder.Dimensions())
			}
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

func (o *IngestionOrchestrator) setStatus(ctx context.Context, job *domain.IngestionJob, state domain.JobState, reason string) {
	job.Advance(state)
	if err := o.documentStore.UpdateStatus(ctx, job.DocumentID, state, reason); err != nil {
		o.logger.Warn("failed to update document status",
			"document_id", job.DocumentID,
			"state", state,
			"error", err,
		)
	}
}
