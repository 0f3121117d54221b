package entity

import "time"

// BackgroundJobStatus tracks a scheduled job run's lifecycle.
type BackgroundJobStatus string

// Background job status constants.
const (
	BackgroundJobRunning   BackgroundJobStatus = "running"
	BackgroundJobCompleted BackgroundJobStatus = "completed"
	BackgroundJobFailed    BackgroundJobStatus = "failed"
)

// BackgroundJob records one execution of a scheduled task, e.g. the
// auto-close scanner pass.
type BackgroundJob struct {
	JobID            string              `json:"job_id" db:"job_id"`
	JobType          string              `json:"job_type" db:"job_type"`
	Status           BackgroundJobStatus `json:"status" db:"status"`
	StartedAt        time.Time           `json:"started_at" db:"started_at"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty" db:"completed_at"`
	ExecutionTimeMs  *float64            `json:"execution_time_ms,omitempty" db:"execution_time_ms"`
	AlertsProcessed  int                 `json:"alerts_processed" db:"alerts_processed"`
	AlertsClosed     int                 `json:"alerts_closed" db:"alerts_closed"`
	AlertsEscalated  int                 `json:"alerts_escalated" db:"alerts_escalated"`
	Errors           []string            `json:"errors" db:"errors"`
}

// NewBackgroundJob starts a new running job record.
func NewBackgroundJob(jobID, jobType string) *BackgroundJob {
	return &BackgroundJob{
		JobID:     jobID,
		JobType:   jobType,
		Status:    BackgroundJobRunning,
		StartedAt: time.Now().UTC(),
		Errors:    []string{},
	}
}

// Complete finalizes the job record with its outcome stats, computing
// ExecutionTimeMs from StartedAt.
func (j *BackgroundJob) Complete(status BackgroundJobStatus, processed, closed, escalated int, errs []string) {
	now := time.Now().UTC()
	elapsedMs := float64(now.Sub(j.StartedAt).Microseconds()) / 1000.0

	j.Status = status
	j.CompletedAt = &now
	j.ExecutionTimeMs = &elapsedMs
	j.AlertsProcessed = processed
	j.AlertsClosed = closed
	j.AlertsEscalated = escalated
	j.Errors = errs
}
