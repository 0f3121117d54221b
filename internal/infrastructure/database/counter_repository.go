package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fleetops/alert-engine/internal/domain/repository"
)

var _ repository.CounterRepository = (*PostgresCounterRepository)(nil)

// PostgresCounterRepository implements CounterRepository using an atomic
// upsert-increment against a single-row-per-counter table.
type PostgresCounterRepository struct {
	db *sqlx.DB
}

// NewPostgresCounterRepository creates a new PostgreSQL counter repository.
func NewPostgresCounterRepository(db *PostgresDB) *PostgresCounterRepository {
	return &PostgresCounterRepository{db: db.DB}
}

// Increment atomically increments (creating if absent) the counter
// identified by counterID and returns the resulting sequence value.
func (r *PostgresCounterRepository) Increment(ctx context.Context, counterID string) (int64, error) {
	query := `
		INSERT INTO counters (id, sequence)
		VALUES ($1, 1)
		ON CONFLICT (id) DO UPDATE SET sequence = counters.sequence + 1
		RETURNING sequence
	`

	var sequence int64
	if err := r.db.GetContext(ctx, &sequence, query, counterID); err != nil {
		return 0, TranslateError(err)
	}

	return sequence, nil
}
