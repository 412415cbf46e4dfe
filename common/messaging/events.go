package messaging

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	SubjectJobCompleted = "jobs.completed"
	SubjectJobFailed    = "jobs.failed"
)

// JobEvent is the payload published on job completion or failure.
type JobEvent struct {
	JobID      string    `json:"job_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// PublishJobEvent serialises and publishes a job lifecycle event. A nil
// client is a no-op so the service runs without a broker.
func (c *NatsClient) PublishJobEvent(subject string, event JobEvent) {
	if c == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("jobID", event.JobID).Msg("Failed to marshal job event")
		return
	}

	if err := c.Publish(subject, data); err != nil {
		log.Warn().Err(err).
			Str("subject", subject).
			Str("jobID", event.JobID).
			Msg("Failed to publish job event")
	}
}
