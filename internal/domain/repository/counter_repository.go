package repository

import "context"

// CounterRepository defines the atomic sequence operations backing the
// alert ID generator.
type CounterRepository interface {
	// Increment atomically increments (creating if absent) the counter
	// identified by counterID and returns the resulting sequence value.
	Increment(ctx context.Context, counterID string) (int64, error)
}
