package domain

import (
	"context"
	"errors"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates bad chunking parameters; the caller must fix
	// its input, retrying will not help
	ErrInvalidConfig = errors.New("invalid chunking config")

	// ErrMalformedInput indicates an unparseable or invalid document; the
	// ingestion job fails without retry
	ErrMalformedInput = errors.New("malformed input")

	// ErrEmbeddingUnavailable indicates the embedding backend could not be
	// reached; transient, retried with backoff
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the vector store could not be reached;
	// transient, retried with backoff
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch indicates configuration drift between the embedding
	// model and the index collection; fatal, requires re-indexing
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGenerationUnavailable indicates a rate-limited or timed-out
	// generation call; transient, retried with backoff
	ErrGenerationUnavailable = errors.New("generation backend unavailable")

	// ErrGenerationFailed indicates the generation backend failed after all
	// retry attempts were exhausted
	ErrGenerationFailed = errors.New("generation failed")

	// ErrIngestInProgress indicates an ingestion run is already active for
	// this document ID
	ErrIngestInProgress = errors.New("ingestion already in progress")
)

// IsRetryable reports whether an error is a transient infrastructure failure
// worth retrying with backoff. Everything else is treated as fatal and
// propagated immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrEmbeddingUnavailable) ||
		errors.Is(err, ErrIndexUnavailable) ||
		errors.Is(err, ErrGenerationUnavailable) ||
		errors.Is(err, ErrIngestInProgress) ||
		errors.Is(err, context.DeadlineExceeded)
}
