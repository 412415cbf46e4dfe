package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/naraya/pool-http-service/common"
	"github.com/naraya/pool-http-service/common/work"
)

const (
	KindSleep = "sleep"
	KindEcho  = "echo"

	maxSleepDuration = 5 * time.Minute
)

func init() {
	Register(KindSleep, newSleepJob)
	Register(KindEcho, newEchoJob)
}

// SleepPayload configures a sleep job
type SleepPayload struct {
	DurationMs int64 `json:"duration_ms"`
}

// newSleepJob builds a job that sleeps for the requested duration. Once
// dequeued it runs to completion; shutdown never interrupts it.
func newSleepJob(jobID string, payload json.RawMessage) (work.Job, error) {
	var p SleepPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPayload, err)
	}

	duration := time.Duration(p.DurationMs) * time.Millisecond
	if duration <= 0 || duration > maxSleepDuration {
		return nil, fmt.Errorf("%w: duration_ms must be in (0, %d]",
			common.ErrInvalidPayload, maxSleepDuration.Milliseconds())
	}

	return work.NewJob(
		func(ctx context.Context) error {
			time.Sleep(duration)
			return nil
		},
		work.WithID(jobID),
	)
}

// EchoPayload configures an echo job
type EchoPayload struct {
	Message string `json:"message"`
}

// newEchoJob builds a job that logs its message.
func newEchoJob(jobID string, payload json.RawMessage) (work.Job, error) {
	var p EchoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPayload, err)
	}
	if p.Message == "" {
		return nil, fmt.Errorf("%w: message is required", common.ErrInvalidPayload)
	}

	return work.NewJob(
		func(ctx context.Context) error {
			log.Info().Str("jobID", jobID).Str("message", p.Message).Msg("Echo")
			return nil
		},
		work.WithID(jobID),
	)
}
