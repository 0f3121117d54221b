package service

import (
	"context"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

// JobService records the execution of scheduled background tasks
// (currently just the auto-close scanner) for observability and audit.
type JobService struct {
	jobRepo repository.JobRepository
}

// NewJobService constructs a JobService.
func NewJobService(jobRepo repository.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

// Start creates and persists a new running job record of the given type.
func (s *JobService) Start(ctx context.Context, jobType string) (*entity.BackgroundJob, error) {
	jobID := "JOB-" + entity.NewID().String()

	job := entity.NewBackgroundJob(jobID, jobType)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Finish records a job's completion outcome.
func (s *JobService) Finish(ctx context.Context, job *entity.BackgroundJob, status entity.BackgroundJobStatus, processed, closed, escalated int, errs []string) error {
	job.Complete(status, processed, closed, escalated, errs)
	return s.jobRepo.Update(ctx, job)
}

// GetRecent returns the most recent job records, most recent first.
func (s *JobService) GetRecent(ctx context.Context, limit int) ([]*entity.BackgroundJob, error) {
	return s.jobRepo.GetRecent(ctx, limit)
}
