package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/application/service"
	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

func TestStateMachine_Transition_Allowed(t *testing.T) {
	// Arrange
	sm := service.NewStateMachine()
	ruleID := "RULE-1"

	// Act
	transition, err := sm.Transition(entity.AlertStatusOpen, entity.AlertStatusEscalated, "repeat count exceeded", "system", &ruleID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusOpen, transition.FromStatus)
	assert.Equal(t, entity.AlertStatusEscalated, transition.ToStatus)
	assert.Equal(t, "system", transition.TriggeredBy)
	require.NotNil(t, transition.RuleTriggered)
	assert.Equal(t, ruleID, *transition.RuleTriggered)
	assert.False(t, transition.Timestamp.IsZero())
}

func TestStateMachine_Transition_Rejected(t *testing.T) {
	sm := service.NewStateMachine()

	testCases := []struct {
		name string
		from entity.AlertStatus
		to   entity.AlertStatus
	}{
		{"terminal auto-closed cannot transition", entity.AlertStatusAutoClosed, entity.AlertStatusResolved},
		{"terminal resolved cannot transition", entity.AlertStatusResolved, entity.AlertStatusEscalated},
		{"self-transition rejected", entity.AlertStatusOpen, entity.AlertStatusOpen},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sm.Transition(tc.from, tc.to, "reason", "system", nil)
			assert.ErrorIs(t, err, repository.ErrInvalidTransition)
		})
	}
}
