package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// JobState represents where an ingestion run is in its pipeline.
// Legal progression: Received → Chunking → Embedding → Indexing → Completed,
// with Failed reachable from any step.
type JobState string

const (
	JobStateReceived  JobState = "received"
	JobStateChunking  JobState = "chunking"
	JobStateEmbedding JobState = "embedding"
	JobStateIndexing  JobState = "indexing"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
)

// Terminal reports whether the state is a terminal one.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

// IngestionJob is one durable ingestion run for a document, processed by
// workers off the task queue. Re-submitting a completed document creates a
// fresh job that upserts over the prior run's records.
type IngestionJob struct {
	// ID is the unique identifier for this job
	ID string `json:"id"`

	// DocumentID is the document this job ingests; runs for the same
	// document ID are serialized via the per-document lock
	DocumentID string `json:"document_id"`

	// Filename is carried for logging and status reporting
	Filename string `json:"filename"`

	// State is the current pipeline step
	State JobState `json:"state"`

	// Attempts is how many times this job has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last failure reason if any
	Error string `json:"error,omitempty"`

	// CreatedAt is when the job was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the job was last modified
	UpdatedAt time.Time `json:"updated_at"`

	// StartedAt is when processing began (nil if not started)
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when processing finished (nil if not complete)
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor is when the job should be processed (for backoff delays)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewIngestionJob creates a job for a document with default retry budget.
func NewIngestionJob(documentID, filename string) *IngestionJob {
	now := time.Now()
	return &IngestionJob{
		ID:           GenerateID(),
		DocumentID:   documentID,
		Filename:     filename,
		State:        JobStateReceived,
		Attempts:     0,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// CanRetry returns true if the job has retry budget left.
func (j *IngestionJob) CanRetry() bool {
	return j.Attempts < j.MaxAttempts
}

// IsReady returns true if the job is ready to be processed.
func (j *IngestionJob) IsReady() bool {
	return !j.State.Terminal() && time.Now().After(j.ScheduledFor)
}

// MarkStarted records the start of an attempt and resets the pipeline to the
// beginning. Re-execution is safe: upserts are idempotent by chunk ID.
func (j *IngestionJob) MarkStarted() {
	now := time.Now()
	j.State = JobStateReceived
	j.StartedAt = &now
	j.UpdatedAt = now
	j.Attempts++
}

// Advance moves the job to the next pipeline step.
func (j *IngestionJob) Advance(state JobState) {
	j.State = state
	j.UpdatedAt = time.Now()
}

// MarkCompleted moves the job to its successful terminal state.
func (j *IngestionJob) MarkCompleted() {
	now := time.Now()
	j.State = JobStateCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.Error = ""
}

// MarkFailed moves the job to its failed terminal state with a reason.
func (j *IngestionJob) MarkFailed(reason string) {
	j.State = JobStateFailed
	j.UpdatedAt = time.Now()
	j.Error = reason
}

// Retry reschedules the job with exponential backoff.
func (j *IngestionJob) Retry(reason string) {
	now := time.Now()
	j.State = JobStateReceived
	j.UpdatedAt = now
	j.Error = reason

	// Exponential backoff: 1s, 2s, 4s, 8s, etc.
	backoff := time.Duration(1<<j.Attempts) * time.Second
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute // Cap at 5 minutes
	}
	j.ScheduledFor = now.Add(backoff)
}

// IngestionStatus is the queryable per-document ingestion state recorded in
// the document store. Failures are kept here so they are never silently
// dropped.
type IngestionStatus struct {
	DocumentID string    `json:"document_id"`
	State      JobState  `json:"state"`
	Error      string    `json:"error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
