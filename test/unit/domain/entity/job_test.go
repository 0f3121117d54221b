package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

func TestNewBackgroundJob(t *testing.T) {
	// Act
	job := entity.NewBackgroundJob("JOB-1", "auto_close_scan")

	// Assert
	assert.Equal(t, "JOB-1", job.JobID)
	assert.Equal(t, "auto_close_scan", job.JobType)
	assert.Equal(t, entity.BackgroundJobRunning, job.Status)
	assert.False(t, job.StartedAt.IsZero())
	assert.Nil(t, job.CompletedAt)
	assert.Empty(t, job.Errors)
}

func TestBackgroundJob_Complete(t *testing.T) {
	// Arrange
	job := entity.NewBackgroundJob("JOB-1", "auto_close_scan")

	// Act
	job.Complete(entity.BackgroundJobCompleted, 10, 3, 1, nil)

	// Assert
	assert.Equal(t, entity.BackgroundJobCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
	require.NotNil(t, job.ExecutionTimeMs)
	assert.GreaterOrEqual(t, *job.ExecutionTimeMs, 0.0)
	assert.Equal(t, 10, job.AlertsProcessed)
	assert.Equal(t, 3, job.AlertsClosed)
	assert.Equal(t, 1, job.AlertsEscalated)
	assert.Nil(t, job.Errors)
}

func TestBackgroundJob_Complete_WithErrors(t *testing.T) {
	// Arrange
	job := entity.NewBackgroundJob("JOB-2", "auto_close_scan")
	errs := []string{"alert OSP-2026-00001: conflict"}

	// Act
	job.Complete(entity.BackgroundJobFailed, 5, 0, 0, errs)

	// Assert
	assert.Equal(t, entity.BackgroundJobFailed, job.Status)
	assert.Equal(t, errs, job.Errors)
}
