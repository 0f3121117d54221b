package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

func TestNewRule_Success(t *testing.T) {
	// Arrange
	conditions := entity.RuleCondition{EscalateIfCount: 3, WindowMins: 30}

	// Act
	rule, err := entity.NewRule("RULE-1", entity.SourceOverspeeding, "Repeat overspeeding", "desc", conditions, 1)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, rule)
	assert.Equal(t, "RULE-1", rule.ID)
	assert.True(t, rule.IsActive)
	assert.Equal(t, 1, rule.Priority)
}

func TestNewRule_ValidationErrors(t *testing.T) {
	validConditions := entity.RuleCondition{EscalateIfCount: 3}

	testCases := []struct {
		name        string
		id          string
		sourceType  entity.SourceType
		ruleName    string
		priority    int
		conditions  entity.RuleCondition
		expectedErr error
	}{
		{"empty id", "", entity.SourceOverspeeding, "Name", 1, validConditions, entity.ErrRuleIDRequired},
		{"empty name", "RULE-1", entity.SourceOverspeeding, "", 1, validConditions, entity.ErrRuleNameRequired},
		{"invalid source type", "RULE-1", entity.SourceType("BOGUS"), "Name", 1, validConditions, entity.ErrRuleInvalidSourceType},
		{"negative priority", "RULE-1", entity.SourceOverspeeding, "Name", -1, validConditions, entity.ErrRuleInvalidPriority},
		{"no escalate or auto-close condition", "RULE-1", entity.SourceOverspeeding, "Name", 1, entity.RuleCondition{}, entity.ErrRuleNoCondition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := entity.NewRule(tc.id, tc.sourceType, tc.ruleName, "desc", tc.conditions, tc.priority)

			assert.Nil(t, rule)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestRuleCondition_EffectiveWindow(t *testing.T) {
	assert.Equal(t, entity.DefaultEscalationWindow, entity.RuleCondition{EscalateIfCount: 3}.EffectiveWindow())
	assert.Equal(t, 15, entity.RuleCondition{EscalateIfCount: 3, WindowMins: 15}.EffectiveWindow())
}

func TestRuleCondition_HasEscalationAndAutoClose(t *testing.T) {
	escalating := entity.RuleCondition{EscalateIfCount: 3}
	assert.True(t, escalating.HasEscalation())
	assert.False(t, escalating.HasAutoClose())

	autoClosing := entity.RuleCondition{AutoCloseIf: "document_valid"}
	assert.False(t, autoClosing.HasEscalation())
	assert.True(t, autoClosing.HasAutoClose())
}

func TestRule_EnableDisable(t *testing.T) {
	// Arrange
	rule, err := entity.NewRule("RULE-1", entity.SourceSafety, "Safety rule", "desc", entity.RuleCondition{EscalateIfCount: 3}, 0)
	require.NoError(t, err)
	assert.True(t, rule.IsActive)

	// Act
	rule.Disable()
	assert.False(t, rule.IsActive)

	rule.Enable()

	// Assert
	assert.True(t, rule.IsActive)
}
