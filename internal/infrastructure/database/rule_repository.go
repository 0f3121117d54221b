package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

var _ repository.RuleRepository = (*PostgresRuleRepository)(nil)

const ruleColumns = `rule_id, source_type, name, description, conditions, is_active, priority, created_at, updated_at`

// PostgresRuleRepository implements RuleRepository using PostgreSQL.
type PostgresRuleRepository struct {
	db *sqlx.DB
}

// NewPostgresRuleRepository creates a new PostgreSQL rule repository.
func NewPostgresRuleRepository(db *PostgresDB) *PostgresRuleRepository {
	return &PostgresRuleRepository{db: db.DB}
}

// Create saves a new rule to the database.
func (r *PostgresRuleRepository) Create(ctx context.Context, rule *entity.Rule) error {
	m, err := RuleModelFromEntity(rule)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO rules (%s)
		VALUES (:rule_id, :source_type, :name, :description, :conditions, :is_active, :priority, :created_at, :updated_at)
	`, ruleColumns)

	_, err = r.db.NamedExecContext(ctx, query, m)
	if err = TranslateError(err); errors.Is(err, repository.ErrDuplicateKey) {
		return repository.ErrAlreadyExists
	}
	return err
}

// GetByID finds a rule by its rule_id.
func (r *PostgresRuleRepository) GetByID(ctx context.Context, ruleID string) (*entity.Rule, error) {
	query := fmt.Sprintf(`SELECT %s FROM rules WHERE rule_id = $1`, ruleColumns)

	var m RuleModel
	if err := r.db.GetContext(ctx, &m, query, ruleID); err != nil {
		return nil, TranslateError(err)
	}

	return m.ToEntity()
}

// Update updates an existing rule.
func (r *PostgresRuleRepository) Update(ctx context.Context, rule *entity.Rule) error {
	m, err := RuleModelFromEntity(rule)
	if err != nil {
		return err
	}

	query := `
		UPDATE rules
		SET name = :name, description = :description, conditions = :conditions,
			is_active = :is_active, priority = :priority, updated_at = :updated_at
		WHERE rule_id = :rule_id
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

// Delete removes a rule by its rule_id.
func (r *PostgresRuleRepository) Delete(ctx context.Context, ruleID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE rule_id = $1`, ruleID)
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

// List returns paginated rules.
func (r *PostgresRuleRepository) List(ctx context.Context, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Rule], error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM rules
		ORDER BY priority DESC, rule_id ASC
		LIMIT $1 OFFSET $2
	`, ruleColumns)

	type row struct {
		RuleModel
		TotalCount int64 `db:"total_count"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, pagination.Limit(), pagination.Offset()); err != nil {
		return nil, TranslateError(err)
	}

	rules := make([]*entity.Rule, 0, len(rows))
	var total int64
	for i := range rows {
		rule, err := rows[i].RuleModel.ToEntity()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
		total = rows[i].TotalCount
	}

	result := valueobject.NewPaginatedResult(rules, total, pagination)
	return &result, nil
}

// ListActiveForSource returns active rules for a source type, ordered by
// priority descending, ties broken by insertion order (created_at ASC, then
// rule_id ASC).
func (r *PostgresRuleRepository) ListActiveForSource(ctx context.Context, sourceType entity.SourceType) ([]*entity.Rule, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rules
		WHERE source_type = $1 AND is_active = true
		ORDER BY priority DESC, created_at ASC, rule_id ASC
	`, ruleColumns)

	return r.selectRules(ctx, query, sourceType)
}

// ListActive returns all active rules, ordered by priority descending, ties
// broken by insertion order (created_at ASC, then rule_id ASC).
func (r *PostgresRuleRepository) ListActive(ctx context.Context) ([]*entity.Rule, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rules
		WHERE is_active = true
		ORDER BY priority DESC, created_at ASC, rule_id ASC
	`, ruleColumns)

	return r.selectRules(ctx, query)
}

func (r *PostgresRuleRepository) selectRules(ctx context.Context, query string, args ...interface{}) ([]*entity.Rule, error) {
	var models []RuleModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, TranslateError(err)
	}

	rules := make([]*entity.Rule, 0, len(models))
	for i := range models {
		rule, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// ExistsByID checks if a rule with that rule_id exists.
func (r *PostgresRuleRepository) ExistsByID(ctx context.Context, ruleID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM rules WHERE rule_id = $1)`, ruleID)
	if err != nil {
		return false, TranslateError(err)
	}
	return exists, nil
}

// Count returns the total number of rules.
func (r *PostgresRuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rules`); err != nil {
		return 0, TranslateError(err)
	}
	return count, nil
}
