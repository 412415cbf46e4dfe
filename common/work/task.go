package work

import (
	"context"

	"github.com/google/uuid"
)

// Job is a single unit of work submitted to the pool. It is executed
// exactly once by exactly one worker; the pool never runs a job twice.
type Job interface {
	// ID returns the job's unique identifier
	ID() string

	// Run executes the job
	Run(ctx context.Context) error

	// OnError is called by the worker when Run fails
	OnError(error)
}

// job is the default Job implementation built by NewJob
type job struct {
	id           string
	run          func(ctx context.Context) error
	errorHandler func(error)
}

// JobOption represents a functional option for job configuration
type JobOption func(*job)

// WithID sets a custom ID for the job
func WithID(id string) JobOption {
	return func(j *job) {
		j.id = id
	}
}

// WithErrorHandler sets a custom error handler for the job
func WithErrorHandler(handler func(error)) JobOption {
	return func(j *job) {
		j.errorHandler = handler
	}
}

// NewJob wraps a function into a Job with optional configuration.
// IDs are time-ordered UUIDs unless overridden with WithID.
func NewJob(run func(ctx context.Context) error, options ...JobOption) (Job, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	j := &job{
		id:  id.String(),
		run: run,
	}

	for _, opt := range options {
		opt(j)
	}

	return j, nil
}

// MustNewJob creates a new job and panics on error (for cases where ID
// generation should never fail)
func MustNewJob(run func(ctx context.Context) error, options ...JobOption) Job {
	j, err := NewJob(run, options...)
	if err != nil {
		panic(err)
	}
	return j
}

// ID returns the job ID
func (j *job) ID() string {
	return j.id
}

// Run executes the wrapped function
func (j *job) Run(ctx context.Context) error {
	return j.run(ctx)
}

// OnError handles job errors
func (j *job) OnError(err error) {
	if j.errorHandler != nil {
		j.errorHandler(err)
	}
}
