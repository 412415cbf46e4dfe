package models

// BaseResponse is the envelope for successful responses
type BaseResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the envelope for error responses
type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"message"`
}

// JobSubmittedResponse is returned when a job is accepted by the pool
type JobSubmittedResponse struct {
	JobID  string `json:"job_id"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

// JobStatusResponse describes the recorded state of a job
type JobStatusResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
