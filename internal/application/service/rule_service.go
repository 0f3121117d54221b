package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

// RuleService errors.
var ErrRuleNotFound = errors.New("rule not found")

// RuleService handles rule CRUD and keeps RuleCache coherent on writes.
type RuleService struct {
	ruleRepo repository.RuleRepository
	cache    *RuleCache
}

// NewRuleService constructs a RuleService.
func NewRuleService(ruleRepo repository.RuleRepository, cache *RuleCache) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, cache: cache}
}

// Create persists a new rule and invalidates the active-rules cache.
func (s *RuleService) Create(ctx context.Context, rule *entity.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return err
	}

	s.cache.Invalidate()
	return nil
}

// GetByID returns a rule by its rule_id.
func (s *RuleService) GetByID(ctx context.Context, ruleID string) (*entity.Rule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

// Update persists changes to an existing rule and invalidates the cache.
func (s *RuleService) Update(ctx context.Context, rule *entity.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRuleNotFound
		}
		return err
	}

	s.cache.Invalidate()
	return nil
}

// Delete removes a rule and invalidates the cache.
func (s *RuleService) Delete(ctx context.Context, ruleID string) error {
	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRuleNotFound
		}
		return err
	}

	s.cache.Invalidate()
	return nil
}

// List returns paginated rules.
func (s *RuleService) List(ctx context.Context, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Rule], error) {
	return s.ruleRepo.List(ctx, pagination)
}

// defaultRuleEntry mirrors one object in the default rule configuration's
// "rules" array.
type defaultRuleEntry struct {
	RuleID      string               `json:"rule_id"`
	SourceType  entity.SourceType    `json:"source_type"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Conditions  entity.RuleCondition `json:"conditions"`
	IsActive    *bool                `json:"is_active"`
	Priority    int                  `json:"priority"`
}

// LoadDefaultRules parses a default-rules JSON document (the
// "{"rules": [...]}" shape) and inserts every entry not already present,
// skipping malformed entries rather than aborting the whole load.
func (s *RuleService) LoadDefaultRules(ctx context.Context, rulesJSON []byte) (int, error) {
	var doc struct {
		Rules []defaultRuleEntry `json:"rules"`
	}
	if err := json.Unmarshal(rulesJSON, &doc); err != nil {
		return 0, fmt.Errorf("parsing default rules: %w", err)
	}

	inserted := 0
	for _, entry := range doc.Rules {
		if entry.RuleID == "" || !entry.SourceType.IsValid() {
			continue
		}

		exists, err := s.ruleRepo.ExistsByID(ctx, entry.RuleID)
		if err != nil {
			continue
		}
		if exists {
			continue
		}

		isActive := true
		if entry.IsActive != nil {
			isActive = *entry.IsActive
		}

		rule := &entity.Rule{
			ID:          entry.RuleID,
			SourceType:  entry.SourceType,
			Name:        entry.Name,
			Description: entry.Description,
			Conditions:  entry.Conditions,
			IsActive:    isActive,
			Priority:    entry.Priority,
			Timestamps:  entity.NewTimestamps(),
		}

		if err := rule.Validate(); err != nil {
			continue
		}

		if err := s.ruleRepo.Create(ctx, rule); err != nil {
			continue
		}
		inserted++
	}

	// Invalidate unconditionally: the bulk load is a batch operation and the
	// cache must not serve a stale view of the rule set even when every
	// entry in this batch happened to already exist.
	s.cache.Invalidate()

	return inserted, nil
}
