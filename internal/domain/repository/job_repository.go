package repository

import (
	"context"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

// JobRepository defines the persistence operations for background job records.
type JobRepository interface {
	// Create inserts a new running job record.
	Create(ctx context.Context, job *entity.BackgroundJob) error

	// Update persists a job's completion outcome.
	// Returns ErrNotFound if job_id doesn't exist.
	Update(ctx context.Context, job *entity.BackgroundJob) error

	// GetRecent returns the most recent job records, most recent first.
	GetRecent(ctx context.Context, limit int) ([]*entity.BackgroundJob, error)
}
