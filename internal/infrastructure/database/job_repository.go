package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

var _ repository.JobRepository = (*PostgresJobRepository)(nil)

const jobColumns = `job_id, job_type, status, started_at, completed_at, execution_time_ms,
	alerts_processed, alerts_closed, alerts_escalated, errors`

// PostgresJobRepository implements JobRepository using PostgreSQL.
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository.
func NewPostgresJobRepository(db *PostgresDB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db.DB}
}

// Create inserts a new running job record.
func (r *PostgresJobRepository) Create(ctx context.Context, job *entity.BackgroundJob) error {
	m := JobModelFromEntity(job)

	query := fmt.Sprintf(`
		INSERT INTO background_jobs (%s)
		VALUES (:job_id, :job_type, :status, :started_at, :completed_at, :execution_time_ms,
			:alerts_processed, :alerts_closed, :alerts_escalated, :errors)
	`, jobColumns)

	_, err := r.db.NamedExecContext(ctx, query, m)
	return TranslateError(err)
}

// Update persists a job's completion outcome.
func (r *PostgresJobRepository) Update(ctx context.Context, job *entity.BackgroundJob) error {
	m := JobModelFromEntity(job)

	query := `
		UPDATE background_jobs
		SET status = :status, completed_at = :completed_at, execution_time_ms = :execution_time_ms,
			alerts_processed = :alerts_processed, alerts_closed = :alerts_closed,
			alerts_escalated = :alerts_escalated, errors = :errors
		WHERE job_id = :job_id
	`

	result, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return TranslateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return TranslateError(err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetRecent returns the most recent job records, most recent first.
func (r *PostgresJobRepository) GetRecent(ctx context.Context, limit int) ([]*entity.BackgroundJob, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM background_jobs
		ORDER BY started_at DESC
		LIMIT $1
	`, jobColumns)

	var models []JobModel
	if err := r.db.SelectContext(ctx, &models, query, limit); err != nil {
		return nil, TranslateError(err)
	}

	jobs := make([]*entity.BackgroundJob, 0, len(models))
	for i := range models {
		jobs = append(jobs, models[i].ToEntity())
	}

	return jobs, nil
}
