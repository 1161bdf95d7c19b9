package jobx

import (
	"encoding/json"
	"time"
)

// JobStatus represents the current state of a job inside the queue.
// Acknowledged jobs are removed, so there is no completed state here.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusActive   JobStatus = "active"
	JobStatusRetrying JobStatus = "retrying"
	JobStatusDead     JobStatus = "dead"
)

// Job represents a unit of work to be enqueued.
type Job struct {
	Type    string          `json:"type"`
	Queue   string          `json:"queue"`
	Payload json.RawMessage `json:"payload"`

	// MaxAttempts bounds the number of deliveries. Default is 3.
	MaxAttempts int `json:"max_attempts"`
}

// JobInfo is the full representation of a job stored in the backend.
type JobInfo struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Queue       string          `json:"queue"`
	Payload     json.RawMessage `json:"payload"`
	Status      JobStatus       `json:"status"`
	Error       string          `json:"error,omitempty"`
	MaxAttempts int             `json:"max_attempts"`
	Attempts    int             `json:"attempts"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Exhausted reports whether the job has used up its deliveries.
func (j *JobInfo) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}

// Lease is the exclusive, time-bounded claim a worker holds on a job.
// Ack and Retry must present the token they were handed.
type Lease struct {
	JobID     string    `json:"job_id"`
	Queue     string    `json:"queue"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Delivery is a dequeued job together with its lease.
type Delivery struct {
	Job   *JobInfo
	Lease Lease
}

// DeadLetter is a job that reached the terminal-failure path.
type DeadLetter struct {
	Job      JobInfo   `json:"job"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// Stats reports queue depths.
type Stats struct {
	Queue     string `json:"queue"`
	Ready     int64  `json:"ready"`
	Scheduled int64  `json:"scheduled"`
	Leased    int64  `json:"leased"`
	Dead      int64  `json:"dead"`
}
