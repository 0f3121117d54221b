// Package handlers provides event handler implementations.
package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fleetops/alert-engine/internal/domain/event"
)

// LoggingHandler logs all alert lifecycle events for auditing.
type LoggingHandler struct{}

// NewLoggingHandler creates a new logging handler.
func NewLoggingHandler() *LoggingHandler {
	return &LoggingHandler{}
}

// HandleAlertCreated logs alert created events.
func (h *LoggingHandler) HandleAlertCreated(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.AlertID).
		Str("source_type", payload.SourceType).
		Str("severity", payload.Severity).
		Msg("alert created")
	return nil
}

// HandleAlertEscalated logs alert escalated events.
func (h *LoggingHandler) HandleAlertEscalated(_ context.Context, payload event.AlertPayload) error {
	ruleTriggered := ""
	if payload.RuleTriggered != nil {
		ruleTriggered = *payload.RuleTriggered
	}

	log.Warn().
		Str("alert_id", payload.AlertID).
		Str("reason", payload.Reason).
		Str("rule_triggered", ruleTriggered).
		Msg("alert escalated")
	return nil
}

// HandleAlertAutoClosed logs alert auto-closed events.
func (h *LoggingHandler) HandleAlertAutoClosed(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.AlertID).
		Str("reason", payload.Reason).
		Msg("alert auto-closed")
	return nil
}

// HandleAlertResolved logs alert resolved events.
func (h *LoggingHandler) HandleAlertResolved(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.AlertID).
		Str("triggered_by", payload.TriggeredBy).
		Msg("alert resolved")
	return nil
}
