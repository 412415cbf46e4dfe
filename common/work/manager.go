package work

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/samber/mo"

	"github.com/naraya/pool-http-service/common/redis"
)

const (
	jobStateKeyPrefix = "job:state:"

	// StatusRunning through StatusFailed are the externally visible job
	// states kept in Redis.
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	// jobTimeout sets how long a job is considered running before it's
	// considered stale. This prevents jobs that died without proper
	// cleanup from being stuck in 'running' state forever.
	jobTimeout = 24 * time.Hour

	// resultTTL is how long terminal states stay queryable.
	resultTTL = time.Hour
)

// JobManager tracks job lifecycle state in Redis. A nil or Redis-less
// manager is a no-op, so the pool works without external state.
type JobManager struct {
	redis *redis.RedisClient
}

// NewJobManager creates a new JobManager. The client may be nil; in that
// case all operations are no-ops.
func NewJobManager(client *redis.RedisClient) *JobManager {
	return &JobManager{
		redis: client,
	}
}

func (m *JobManager) enabled() bool {
	return m != nil && m.redis != nil
}

// jobKey returns the Redis key for a given job ID.
func (m *JobManager) jobKey(jobID string) string {
	return jobStateKeyPrefix + jobID
}

// Start marks a job as running. SetNX prevents starting a job that is
// already running under the same ID.
func (m *JobManager) Start(ctx context.Context, jobID string) error {
	if !m.enabled() {
		return nil
	}

	ok, err := m.redis.SetNX(ctx, m.jobKey(jobID), StatusRunning, jobTimeout)
	if err != nil {
		return fmt.Errorf("failed to start job %s: %w", jobID, err)
	}
	if !ok {
		return fmt.Errorf("job %s is already running", jobID)
	}
	return nil
}

// Complete marks a job as completed. The terminal state stays queryable
// until its TTL expires.
func (m *JobManager) Complete(ctx context.Context, jobID string) error {
	return m.finish(ctx, jobID, StatusCompleted)
}

// Fail marks a job as failed.
func (m *JobManager) Fail(ctx context.Context, jobID string) error {
	return m.finish(ctx, jobID, StatusFailed)
}

func (m *JobManager) finish(ctx context.Context, jobID, status string) error {
	if !m.enabled() {
		return nil
	}

	if err := m.redis.Set(ctx, m.jobKey(jobID), status, resultTTL); err != nil {
		return fmt.Errorf("failed to mark job %s as %s: %w", jobID, status, err)
	}
	return nil
}

// Get returns the recorded status of a job, or None when the job is
// unknown (never started, or expired).
func (m *JobManager) Get(ctx context.Context, jobID string) (mo.Option[string], error) {
	if !m.enabled() {
		return mo.None[string](), nil
	}

	status, err := m.redis.Get(ctx, m.jobKey(jobID))
	if err != nil {
		if errors.Is(err, redisv9.Nil) {
			return mo.None[string](), nil
		}
		return mo.None[string](), fmt.Errorf("failed to get job state for %s: %w", jobID, err)
	}
	return mo.Some(status), nil
}

// ListRunning returns the IDs of all jobs currently marked as running.
// It uses SCAN to avoid blocking the Redis server.
func (m *JobManager) ListRunning(ctx context.Context) ([]string, error) {
	if !m.enabled() {
		return nil, nil
	}

	var jobIDs []string
	pattern := jobStateKeyPrefix + "*"

	iter := m.redis.GetClient().Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		status, err := m.redis.Get(ctx, key)
		if err != nil {
			if errors.Is(err, redisv9.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get job state for %s: %w", key, err)
		}
		if status != StatusRunning {
			continue
		}

		jobIDs = append(jobIDs, strings.TrimPrefix(key, jobStateKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan for running jobs in Redis: %w", err)
	}

	return jobIDs, nil
}
