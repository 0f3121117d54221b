package database

import "fmt"

// CacheKey provides consistent cache key generation.
// Format: {prefix}:{identifier}
type CacheKey struct{}

// NewCacheKey creates a new CacheKey helper.
func NewCacheKey() *CacheKey {
	return &CacheKey{}
}

// Alert returns the cache key for an alert by its human-readable alert_id.
func (c *CacheKey) Alert(alertID string) string {
	return fmt.Sprintf("alert:%s", alertID)
}

// Rule returns the cache key for a rule by its rule_id.
func (c *CacheKey) Rule(ruleID string) string {
	return fmt.Sprintf("rule:%s", ruleID)
}

// RulesForSource returns the cache key for the active rule set of a source type.
func (c *CacheKey) RulesForSource(sourceType string) string {
	return fmt.Sprintf("rules:active:%s", sourceType)
}

// AlertStatistics returns the cache key for alert statistics.
func (c *CacheKey) AlertStatistics() string {
	return "stats:alerts"
}

// Pattern returns a pattern for matching multiple keys.
// Example: Pattern("alert", "*") returns "alert:*"
func (c *CacheKey) Pattern(parts ...string) string {
	if len(parts) == 0 {
		return "*"
	}

	key := parts[0]
	for i := 1; i < len(parts); i++ {
		key += ":" + parts[i]
	}

	return key
}
