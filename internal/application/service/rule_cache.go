package service

import (
	"context"
	"sync"
	"time"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

// DefaultRuleCacheTTL is used when the caller doesn't supply a positive TTL.
const DefaultRuleCacheTTL = 5 * time.Minute

// RuleCache is an in-process, mutex-guarded snapshot of active rules
// grouped by source type, refreshed on a TTL. It exists so the rule engine
// does not hit the rule store on every alert creation.
type RuleCache struct {
	ruleRepo repository.RuleRepository
	ttl      time.Duration
	mu       sync.RWMutex
	bySource map[entity.SourceType][]*entity.Rule
	loadedAt time.Time
}

// NewRuleCache constructs an empty RuleCache backed by ruleRepo, refreshing
// on ttl (DefaultRuleCacheTTL if ttl is non-positive).
func NewRuleCache(ruleRepo repository.RuleRepository, ttl time.Duration) *RuleCache {
	if ttl <= 0 {
		ttl = DefaultRuleCacheTTL
	}
	return &RuleCache{
		ruleRepo: ruleRepo,
		ttl:      ttl,
		bySource: make(map[entity.SourceType][]*entity.Rule),
	}
}

// ForSource returns the active rules for sourceType, sorted by priority
// descending, reloading the whole cache first if the TTL has elapsed.
func (c *RuleCache) ForSource(ctx context.Context, sourceType entity.SourceType) ([]*entity.Rule, error) {
	c.mu.RLock()
	valid := c.isValid()
	rules := c.bySource[sourceType]
	c.mu.RUnlock()

	if valid {
		return rules, nil
	}

	if err := c.reload(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bySource[sourceType], nil
}

// GetAllActive returns a snapshot mapping every source type to its active
// rules, sorted by priority descending, reloading first if the TTL has
// elapsed. The returned map is a copy; callers may not mutate the cache by
// modifying it.
func (c *RuleCache) GetAllActive(ctx context.Context) (map[entity.SourceType][]*entity.Rule, error) {
	c.mu.RLock()
	valid := c.isValid()
	c.mu.RUnlock()

	if !valid {
		if err := c.reload(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[entity.SourceType][]*entity.Rule, len(c.bySource))
	for sourceType, rules := range c.bySource {
		snapshot[sourceType] = rules
	}
	return snapshot, nil
}

// Invalidate forces the next read to reload from the store. Call after any
// rule create/update/delete.
func (c *RuleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadedAt = time.Time{}
}

func (c *RuleCache) isValid() bool {
	return !c.loadedAt.IsZero() && time.Since(c.loadedAt) < c.ttl
}

func (c *RuleCache) reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock: another goroutine may
	// have already reloaded while we waited.
	if c.isValid() {
		return nil
	}

	rules, err := c.ruleRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	grouped := make(map[entity.SourceType][]*entity.Rule)
	for _, rule := range rules {
		grouped[rule.SourceType] = append(grouped[rule.SourceType], rule)
	}

	c.bySource = grouped
	c.loadedAt = time.Now().UTC()

	return nil
}
