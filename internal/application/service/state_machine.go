package service

import (
	"time"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

// StateMachine validates and builds alert lifecycle transitions. It holds
// no state of its own: every method is a pure function of its arguments,
// so both the manual-resolution path and the rule-triggered path share one
// implementation of "what transitions are legal and what they record".
type StateMachine struct{}

// NewStateMachine constructs a StateMachine.
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// Transition validates that moving from `from` to `to` is legal and, if so,
// builds the AlertStateTransition record for it. Returns
// repository.ErrInvalidTransition if the move is not permitted.
func (m *StateMachine) Transition(from, to entity.AlertStatus, reason, triggeredBy string, ruleTriggered *string) (entity.AlertStateTransition, error) {
	if !entity.CanTransitionAlertStatus(from, to) {
		return entity.AlertStateTransition{}, repository.ErrInvalidTransition
	}

	return entity.AlertStateTransition{
		FromStatus:    from,
		ToStatus:      to,
		Timestamp:     time.Now().UTC(),
		Reason:        reason,
		TriggeredBy:   triggeredBy,
		RuleTriggered: ruleTriggered,
	}, nil
}
