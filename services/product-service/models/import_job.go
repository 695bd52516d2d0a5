package models

import "time"

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobDone       JobStatus = "done"
	JobFailed     JobStatus = "failed"
)

// ImportJob is the async bulk import state kept in redis.
type ImportJob struct {
	ID        string        `json:"id"`
	Status    JobStatus     `json:"status"`
	Format    string        `json:"format"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Error     string        `json:"error,omitempty"`
	Result    *ImportResult `json:"result,omitempty"`
}
