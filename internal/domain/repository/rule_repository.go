package repository

import (
	"context"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

// RuleRepository defines the persistence operations for escalation/auto-close rules.
type RuleRepository interface {
	// Create saves a new rule. Returns ErrAlreadyExists if rule_id is taken.
	Create(ctx context.Context, rule *entity.Rule) error

	// GetByID finds a rule by its rule_id.
	// Returns ErrNotFound if it doesn't exist.
	GetByID(ctx context.Context, ruleID string) (*entity.Rule, error)

	// Update updates an existing rule.
	// Returns ErrNotFound if it doesn't exist.
	Update(ctx context.Context, rule *entity.Rule) error

	// Delete removes a rule by its rule_id.
	// Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, ruleID string) error

	// List returns paginated rules.
	List(ctx context.Context, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Rule], error)

	// ListActiveForSource returns active rules for a source type, ordered
	// by priority descending.
	ListActiveForSource(ctx context.Context, sourceType entity.SourceType) ([]*entity.Rule, error)

	// ListActive returns all active rules, ordered by priority descending.
	// Used to populate the in-process rule cache.
	ListActive(ctx context.Context) ([]*entity.Rule, error)

	// ExistsByID checks if a rule with that rule_id exists.
	ExistsByID(ctx context.Context, ruleID string) (bool, error)

	// Count returns the total number of rules.
	Count(ctx context.Context) (int64, error)
}
