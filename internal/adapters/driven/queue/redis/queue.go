package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

const (
	// Stream names
	jobStream     = "rag:ingest"
	jobGroup      = "rag:workers"
	scheduledJobs = "rag:scheduled"

	// Key prefixes
	jobKeyPrefix = "rag:job:"

	// Default consumer name prefix
	consumerPrefix = "worker-"

	// Claim timeout - how long before a job is considered abandoned
	claimTimeout = 5 * time.Minute
)

// Verify interface compliance
var _ driven.TaskQueue = (*Queue)(nil)

// Queue implements TaskQueue using Redis Streams.
// Redis Streams provide reliable message queuing with consumer groups,
// automatic acknowledgment tracking, and dead letter handling.
type Queue struct {
	client       *redis.Client
	consumerName string
}

// NewQueue creates a new Redis-backed ingestion queue.
// The consumerName should be unique per worker instance (e.g., hostname + PID).
func NewQueue(client *redis.Client, consumerName string) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if consumerName == "" {
		consumerName = fmt.Sprintf("%s%d", consumerPrefix, time.Now().UnixNano())
	}

	q := &Queue{
		client:       client,
		consumerName: consumerName,
	}

	// Create consumer group if it doesn't exist
	ctx := context.Background()
	err := q.client.XGroupCreateMkStream(ctx, jobStream, jobGroup, "0").Err()
	if err != nil && !isGroupExistsError(err) {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return q, nil
}

// Enqueue adds an ingestion job to the queue for processing.
func (q *Queue) Enqueue(ctx context.Context, job *domain.IngestionJob) error {
	if job == nil {
		return errors.New("job is required")
	}

	// Store full job details in a key
	jobKey := jobKeyPrefix + job.ID
	jobData, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// Use pipeline for atomic operations
	pipe := q.client.Pipeline()

	// Store job data
	pipe.Set(ctx, jobKey, jobData, 24*time.Hour) // TTL for safety

	// Check if job should be delayed
	if job.ScheduledFor.After(time.Now()) {
		// Add to sorted set for delayed execution
		pipe.ZAdd(ctx, scheduledJobs, redis.Z{
			Score:  float64(job.ScheduledFor.Unix()),
			Member: job.ID,
		})
	} else {
		// Add to stream immediately
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: jobStream,
			Values: map[string]interface{}{
				"job_id":      job.ID,
				"document_id": job.DocumentID,
			},
		})
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	return nil
}

// Dequeue retrieves the next available job for processing.
// This blocks until a job is available or context is cancelled.
func (q *Queue) Dequeue(ctx context.Context) (*domain.IngestionJob, error) {
	return q.DequeueWithTimeout(ctx, 0) // 0 means block forever
}

// DequeueWithTimeout retrieves the next available job, waiting up to timeout seconds.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.IngestionJob, error) {
	// First, promote any due scheduled jobs
	if err := q.promoteScheduledJobs(ctx); err != nil {
		// Log but don't fail - this is best effort
		_ = err
	}

	// Try to claim abandoned jobs first
	job, err := q.claimAbandonedJob(ctx)
	if err == nil && job != nil {
		return job, nil
	}

	// Read new jobs from stream
	blockDuration := time.Duration(timeout) * time.Second
	if timeout == 0 {
		blockDuration = 0 // Block forever
	}

	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    jobGroup,
		Consumer: q.consumerName,
		Streams:  []string{jobStream, ">"},
		Count:    1,
		Block:    blockDuration,
	}).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // No jobs available
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, nil
	}

	msg := streams[0].Messages[0]
	jobID, ok := msg.Values["job_id"].(string)
	if !ok {
		// Invalid message, acknowledge and skip
		q.client.XAck(ctx, jobStream, jobGroup, msg.ID)
		return nil, nil
	}

	// Fetch full job data
	job, err = q.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job data: %w", err)
	}

	if job == nil {
		// Job data missing, acknowledge and skip
		q.client.XAck(ctx, jobStream, jobGroup, msg.ID)
		return nil, nil
	}

	// Record the new attempt
	job.MarkStarted()

	// Store updated job and message ID for ack/nack
	jobData, _ := json.Marshal(job)
	q.client.Set(ctx, jobKeyPrefix+job.ID, jobData, 24*time.Hour)
	q.client.Set(ctx, jobKeyPrefix+job.ID+":msg", msg.ID, 24*time.Hour)

	return job, nil
}

// Ack acknowledges successful completion of a job.
func (q *Queue) Ack(ctx context.Context, jobID string) error {
	// Get the message ID
	msgID, err := q.client.Get(ctx, jobKeyPrefix+jobID+":msg").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to get message ID: %w", err)
	}

	pipe := q.client.Pipeline()

	// Acknowledge the message in the stream
	if msgID != "" {
		pipe.XAck(ctx, jobStream, jobGroup, msgID)
		pipe.XDel(ctx, jobStream, msgID)
	}

	// Update job status
	job, err := q.GetJob(ctx, jobID)
	if err == nil && job != nil {
		job.MarkCompleted()
		jobData, _ := json.Marshal(job)
		pipe.Set(ctx, jobKeyPrefix+jobID, jobData, 24*time.Hour)
	}

	// Clean up message ID key
	pipe.Del(ctx, jobKeyPrefix+jobID+":msg")

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ack job: %w", err)
	}

	return nil
}

// Nack indicates job processing failed and should be retried.
// When the retry budget is exhausted the job is marked failed instead.
func (q *Queue) Nack(ctx context.Context, jobID string, reason string) error {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return domain.ErrNotFound
	}

	// Get message ID for acknowledgment
	msgID, _ := q.client.Get(ctx, jobKeyPrefix+jobID+":msg").Result()

	pipe := q.client.Pipeline()

	// Acknowledge the current message (we'll re-enqueue if retrying)
	if msgID != "" {
		pipe.XAck(ctx, jobStream, jobGroup, msgID)
		pipe.XDel(ctx, jobStream, msgID)
	}

	// Check if job can be retried
	if job.CanRetry() {
		job.Retry(reason)
		jobData, _ := json.Marshal(job)
		pipe.Set(ctx, jobKeyPrefix+jobID, jobData, 24*time.Hour)

		// Re-enqueue with delay (via scheduled set)
		pipe.ZAdd(ctx, scheduledJobs, redis.Z{
			Score:  float64(job.ScheduledFor.Unix()),
			Member: job.ID,
		})
	} else {
		// Mark as failed
		job.MarkFailed(reason)
		jobData, _ := json.Marshal(job)
		pipe.Set(ctx, jobKeyPrefix+jobID, jobData, 24*time.Hour)
	}

	// Clean up message ID key
	pipe.Del(ctx, jobKeyPrefix+jobID+":msg")

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to nack job: %w", err)
	}

	return nil
}

// Fail marks a job as permanently failed, regardless of remaining retries.
// Used for non-retryable errors such as malformed input.
func (q *Queue) Fail(ctx context.Context, jobID string, reason string) error {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return domain.ErrNotFound
	}

	msgID, _ := q.client.Get(ctx, jobKeyPrefix+jobID+":msg").Result()

	pipe := q.client.Pipeline()

	if msgID != "" {
		pipe.XAck(ctx, jobStream, jobGroup, msgID)
		pipe.XDel(ctx, jobStream, msgID)
	}

	job.MarkFailed(reason)
	jobData, _ := json.Marshal(job)
	pipe.Set(ctx, jobKeyPrefix+jobID, jobData, 24*time.Hour)

	// Make sure a scheduled retry does not resurrect it
	pipe.ZRem(ctx, scheduledJobs, jobID)
	pipe.Del(ctx, jobKeyPrefix+jobID+":msg")

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to fail job: %w", err)
	}

	return nil
}

// GetJob retrieves a job by ID.
func (q *Queue) GetJob(ctx context.Context, jobID string) (*domain.IngestionJob, error) {
	data, err := q.client.Get(ctx, jobKeyPrefix+jobID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	var job domain.IngestionJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

// Stats returns queue statistics.
func (q *Queue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	stats := &driven.QueueStats{}

	// Get pending count from stream
	info, err := q.client.XInfoStream(ctx, jobStream).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		// Stream might not exist yet
		if !isStreamNotExistsError(err) {
			return nil, fmt.Errorf("failed to get stream info: %w", err)
		}
	} else if err == nil {
		stats.PendingCount = int64(info.Length)
	}

	// Get scheduled count
	scheduledCount, err := q.client.ZCard(ctx, scheduledJobs).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get scheduled count: %w", err)
	}
	stats.PendingCount += scheduledCount

	// Get processing count from consumer group
	groups, err := q.client.XInfoGroups(ctx, jobStream).Result()
	if err == nil {
		for _, group := range groups {
			if group.Name == jobGroup {
				stats.ProcessingCount = int64(group.Pending)
				break
			}
		}
	}

	// Count completed/failed jobs (requires scan - expensive)
	var cursor uint64
	pattern := jobKeyPrefix + "*"

	for {
		keys, newCursor, err := q.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			break
		}

		for _, key := range keys {
			if len(key) > 4 && key[len(key)-4:] == ":msg" {
				continue
			}

			data, _ := q.client.Get(ctx, key).Result()
			var job domain.IngestionJob
			if json.Unmarshal([]byte(data), &job) == nil {
				switch job.State {
				case domain.JobStateCompleted:
					stats.CompletedCount++
				case domain.JobStateFailed:
					stats.FailedCount++
				}
			}
		}

		cursor = newCursor
		if cursor == 0 {
			break
		}
	}

	return stats, nil
}

// Ping checks if the queue backend is healthy.
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close cleans up resources.
func (q *Queue) Close() error {
	// Redis client is shared, don't close it here
	return nil
}

// promoteScheduledJobs moves due scheduled jobs to the main stream.
func (q *Queue) promoteScheduledJobs(ctx context.Context) error {
	now := time.Now().Unix()

	// Get jobs that are due
	due, err := q.client.ZRangeByScore(ctx, scheduledJobs, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", now),
	}).Result()
	if err != nil {
		return err
	}

	if len(due) == 0 {
		return nil
	}

	pipe := q.client.Pipeline()

	for _, jobID := range due {
		// Get job data
		job, err := q.GetJob(ctx, jobID)
		if err != nil || job == nil {
			pipe.ZRem(ctx, scheduledJobs, jobID)
			continue
		}

		// Add to stream
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: jobStream,
			Values: map[string]interface{}{
				"job_id":      job.ID,
				"document_id": job.DocumentID,
			},
		})

		// Remove from scheduled set
		pipe.ZRem(ctx, scheduledJobs, jobID)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// claimAbandonedJob tries to claim a job that was abandoned by another worker.
func (q *Queue) claimAbandonedJob(ctx context.Context) (*domain.IngestionJob, error) {
	// Get pending messages that have been idle too long
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: jobStream,
		Group:  jobGroup,
		Start:  "-",
		End:    "+",
		Count:  10,
		Idle:   claimTimeout,
	}).Result()
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		// Try to claim this message
		claimed, err := q.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   jobStream,
			Group:    jobGroup,
			Consumer: q.consumerName,
			MinIdle:  claimTimeout,
			Messages: []string{p.ID},
		}).Result()
		if err != nil || len(claimed) == 0 {
			continue
		}

		msg := claimed[0]
		jobID, ok := msg.Values["job_id"].(string)
		if !ok {
			// Invalid message, delete it
			q.client.XAck(ctx, jobStream, jobGroup, msg.ID)
			q.client.XDel(ctx, jobStream, msg.ID)
			continue
		}

		job, err := q.GetJob(ctx, jobID)
		if err != nil || job == nil {
			q.client.XAck(ctx, jobStream, jobGroup, msg.ID)
			q.client.XDel(ctx, jobStream, msg.ID)
			continue
		}

		// Record the new attempt
		job.MarkStarted()
		jobData, _ := json.Marshal(job)
		q.client.Set(ctx, jobKeyPrefix+job.ID, jobData, 24*time.Hour)
		q.client.Set(ctx, jobKeyPrefix+job.ID+":msg", msg.ID, 24*time.Hour)

		return job, nil
	}

	return nil, nil
}

// Helper functions

func isGroupExistsError(err error) bool {
	return err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists"
}

func isStreamNotExistsError(err error) bool {
	return err != nil && (err.Error() == "ERR no such key" ||
		err.Error() == "ERR The XINFO subcommand requires the key to exist")
}
