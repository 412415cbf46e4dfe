package work

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/naraya/pool-http-service/common/metrics"
	"github.com/naraya/pool-http-service/common/queue"
)

var (
	ErrInvalidPoolSize  = errors.New("invalid pool size")
	ErrPoolShuttingDown = errors.New("pool is shutting down")
)

// State is the pool lifecycle state
type State int32

const (
	// StateRunning accepts submissions and dispatches jobs
	StateRunning State = iota
	// StateDraining rejects submissions while workers finish queued jobs
	StateDraining
	// StateStopped means every worker has exited; terminal
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a single job execution. Results are
// delivered on a best-effort channel for observers; they never flow back
// to the Submit caller.
type Result struct {
	JobID     string
	Err       error
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// IsSuccess returns true if the job completed without error
func (r Result) IsSuccess() bool {
	return r.Err == nil
}

// PoolConfig holds configuration for the worker pool
type PoolConfig struct {
	Name           string
	NumWorkers     int
	ResultChanSize int                  // Buffer size for the result channel
	Metrics        *metrics.PoolMetrics // Optional Prometheus collectors
}

// DefaultPoolConfig returns a sensible default configuration
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Name:           "pool",
		NumWorkers:     4,
		ResultChanSize: 8,
	}
}

// Pool owns a fixed set of worker goroutines pulling jobs from a shared
// unbounded FIFO queue. The worker count never changes after
// construction; the only lifecycle transition is the graceful shutdown
// Running -> Draining -> Stopped.
type Pool struct {
	config  PoolConfig
	ctx     context.Context
	jobs    *queue.Queue[Job]
	results chan Result
	wg      sync.WaitGroup

	state        atomic.Int32
	shutdownOnce sync.Once

	// Metrics
	activeWorkers int64
	jobsSubmitted int64
	jobsCompleted int64
	jobsFailed    int64
}

// NewPool creates a pool with numWorkers workers, each immediately
// waiting on the job queue. The provided context is passed to every job
// execution; it does not cancel dispatch, which only Shutdown stops.
func NewPool(ctx context.Context, numWorkers int) (*Pool, error) {
	config := DefaultPoolConfig()
	config.NumWorkers = numWorkers
	return NewPoolWithConfig(ctx, config)
}

// NewPoolWithConfig creates a pool with custom configuration
func NewPoolWithConfig(ctx context.Context, config PoolConfig) (*Pool, error) {
	if config.NumWorkers < 1 {
		return nil, ErrInvalidPoolSize
	}

	if config.Name == "" {
		config.Name = "pool"
	}

	if config.ResultChanSize < 1 {
		config.ResultChanSize = config.NumWorkers * 2
	}

	p := &Pool{
		config:  config,
		ctx:     ctx,
		jobs:    queue.New[Job](),
		results: make(chan Result, config.ResultChanSize),
	}

	for i := 0; i < config.NumWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Info().
		Str("pool", config.Name).
		Int("numWorkers", config.NumWorkers).
		Msg("Worker pool started")

	return p, nil
}

// Submit hands a job to the queue. Some idle worker will eventually run
// it; there is no guarantee which one, or when beyond "after a worker
// becomes idle". Returns ErrPoolShuttingDown once shutdown has begun.
func (p *Pool) Submit(j Job) error {
	if p.State() != StateRunning {
		return ErrPoolShuttingDown
	}

	if err := p.jobs.Push(j); err != nil {
		// Shutdown raced with the state check above.
		return ErrPoolShuttingDown
	}

	atomic.AddInt64(&p.jobsSubmitted, 1)
	if p.config.Metrics != nil {
		p.config.Metrics.JobsSubmitted.Inc()
	}
	return nil
}

// Shutdown closes the job queue, waits for the workers to drain it and
// exit, then returns. Jobs submitted before the call are still executed;
// submissions after it fail with ErrPoolShuttingDown. Idempotent: a
// second call returns without joining anything twice. A job that never
// returns blocks Shutdown forever; there is no forced termination.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.state.Store(int32(StateDraining))
		log.Info().
			Str("pool", p.config.Name).
			Int("queued", p.jobs.Len()).
			Msg("Worker pool draining")

		p.jobs.Close()
		p.wg.Wait()

		p.state.Store(int32(StateStopped))
		close(p.results)

		log.Info().
			Str("pool", p.config.Name).
			Int64("completed", atomic.LoadInt64(&p.jobsCompleted)).
			Int64("failed", atomic.LoadInt64(&p.jobsFailed)).
			Msg("Worker pool stopped")
	})
}

// Results returns the channel carrying job outcomes. It is closed when
// the pool reaches the stopped state.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// State returns the current lifecycle state
func (p *Pool) State() State {
	return State(p.state.Load())
}

// Stats returns a snapshot of pool counters
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		State:         p.State().String(),
		NumWorkers:    p.config.NumWorkers,
		ActiveWorkers: atomic.LoadInt64(&p.activeWorkers),
		JobsSubmitted: atomic.LoadInt64(&p.jobsSubmitted),
		JobsCompleted: atomic.LoadInt64(&p.jobsCompleted),
		JobsFailed:    atomic.LoadInt64(&p.jobsFailed),
		JobsInQueue:   int64(p.jobs.Len()),
	}
}

// PoolStats holds statistics about the pool
type PoolStats struct {
	State         string `json:"state"`
	NumWorkers    int    `json:"num_workers"`
	ActiveWorkers int64  `json:"active_workers"`
	JobsSubmitted int64  `json:"jobs_submitted"`
	JobsCompleted int64  `json:"jobs_completed"`
	JobsFailed    int64  `json:"jobs_failed"`
	JobsInQueue   int64  `json:"jobs_in_queue"`
}

// worker is the receive loop of a single pool goroutine. It exits only
// when the queue reports closed-and-drained.
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	atomic.AddInt64(&p.activeWorkers, 1)
	defer atomic.AddInt64(&p.activeWorkers, -1)
	if p.config.Metrics != nil {
		p.config.Metrics.ActiveWorkers.Inc()
		defer p.config.Metrics.ActiveWorkers.Dec()
	}

	log.Debug().
		Str("pool", p.config.Name).
		Int("workerID", workerID).
		Msg("Worker started")

	for {
		j, ok := p.jobs.Pop()
		if !ok {
			log.Debug().
				Str("pool", p.config.Name).
				Int("workerID", workerID).
				Msg("Worker stopped - queue closed and drained")
			return
		}

		p.runJob(j, workerID)
	}
}

// runJob executes a single job with panic isolation. A failing or
// panicking job is reported and must not take the worker down with it.
func (p *Pool) runJob(j Job, workerID int) {
	jobID := j.ID()
	startTime := time.Now()

	log.Debug().
		Str("pool", p.config.Name).
		Int("workerID", workerID).
		Str("jobID", jobID).
		Msg("Executing job")

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
				log.Error().
					Str("pool", p.config.Name).
					Int("workerID", workerID).
					Str("jobID", jobID).
					Interface("panic", r).
					Msg("Job panicked, worker recovered")
			}
		}()
		err = j.Run(p.ctx)
	}()

	endTime := time.Now()
	duration := endTime.Sub(startTime)

	if err != nil {
		atomic.AddInt64(&p.jobsFailed, 1)
		if p.config.Metrics != nil {
			p.config.Metrics.JobsFailed.Inc()
		}
		j.OnError(err)
	} else {
		atomic.AddInt64(&p.jobsCompleted, 1)
		if p.config.Metrics != nil {
			p.config.Metrics.JobsCompleted.Inc()
		}
	}
	if p.config.Metrics != nil {
		p.config.Metrics.JobDuration.Observe(duration.Seconds())
	}

	result := Result{
		JobID:     jobID,
		Err:       err,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  duration,
	}

	// Observers may be slow or absent; never let result delivery stall a
	// worker or wedge shutdown.
	select {
	case p.results <- result:
	default:
		log.Warn().
			Str("pool", p.config.Name).
			Str("jobID", jobID).
			Msg("Result channel full, dropping result")
	}

	log.Debug().
		Str("pool", p.config.Name).
		Int("workerID", workerID).
		Str("jobID", jobID).
		Dur("duration", duration).
		Bool("success", err == nil).
		Msg("Job completed")
}
