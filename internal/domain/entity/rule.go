package entity

import (
	"errors"
)

// Rule defines the escalation and auto-close conditions evaluated against
// alerts of a given source type.
type Rule struct {
	ID          string        `json:"rule_id" db:"rule_id"`
	SourceType  SourceType    `json:"source_type" db:"source_type"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description,omitempty" db:"description"`
	Conditions  RuleCondition `json:"conditions" db:"conditions"`
	IsActive    bool          `json:"is_active" db:"is_active"`
	Priority    int           `json:"priority" db:"priority"`
	Timestamps
}

// RuleCondition holds the escalation/auto-close thresholds for a rule.
// Stored as JSON in the database.
type RuleCondition struct {
	// EscalateIfCount is the number of similar alerts within WindowMins that
	// triggers escalation. Zero means the rule never escalates.
	EscalateIfCount int `json:"escalate_if_count,omitempty"`
	// WindowMins is the lookback window for the similar-alert count.
	// Defaults to 60 when EscalateIfCount is set but WindowMins is zero.
	WindowMins int `json:"window_mins,omitempty"`
	// AutoCloseIf names a predicate the rule engine recognizes, e.g.
	// "document_valid". Empty means the rule never auto-closes on its own.
	AutoCloseIf string `json:"auto_close_if,omitempty"`
	// ExpireAfterMins is stored and persisted with the rule; no code in this
	// module reads it, so it has no effect on an alert's expiration.
	ExpireAfterMins int `json:"expire_after_mins,omitempty"`
}

// DefaultEscalationWindow is used when a rule sets EscalateIfCount without
// an explicit WindowMins.
const DefaultEscalationWindow = 60

// EffectiveWindow returns WindowMins, defaulting to DefaultEscalationWindow.
func (c RuleCondition) EffectiveWindow() int {
	if c.WindowMins > 0 {
		return c.WindowMins
	}
	return DefaultEscalationWindow
}

// HasEscalation reports whether the rule carries an escalation condition.
func (c RuleCondition) HasEscalation() bool {
	return c.EscalateIfCount > 0
}

// HasAutoClose reports whether the rule carries a named auto-close predicate.
func (c RuleCondition) HasAutoClose() bool {
	return c.AutoCloseIf != ""
}

// Rule validation errors.
var (
	ErrRuleIDRequired        = errors.New("rule id is required")
	ErrRuleNameRequired      = errors.New("rule name is required")
	ErrRuleInvalidSourceType = errors.New("invalid rule source type")
	ErrRuleInvalidPriority   = errors.New("rule priority must be non-negative")
	ErrRuleNoCondition       = errors.New("rule must set at least one of escalate_if_count or auto_close_if")
)

// NewRule creates a new active rule for the given source type.
func NewRule(id string, sourceType SourceType, name, description string, conditions RuleCondition, priority int) (*Rule, error) {
	rule := &Rule{
		ID:          id,
		SourceType:  sourceType,
		Name:        name,
		Description: description,
		Conditions:  conditions,
		IsActive:    true,
		Priority:    priority,
		Timestamps:  NewTimestamps(),
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	return rule, nil
}

// Validate checks that the rule carries the minimum data required to
// evaluate it.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return ErrRuleIDRequired
	}

	if r.Name == "" {
		return ErrRuleNameRequired
	}

	if !r.SourceType.IsValid() {
		return ErrRuleInvalidSourceType
	}

	if r.Priority < 0 {
		return ErrRuleInvalidPriority
	}

	if !r.Conditions.HasEscalation() && !r.Conditions.HasAutoClose() {
		return ErrRuleNoCondition
	}

	return nil
}

// Enable activates the rule.
func (r *Rule) Enable() {
	r.IsActive = true
	r.Touch()
}

// Disable deactivates the rule.
func (r *Rule) Disable() {
	r.IsActive = false
	r.Touch()
}
