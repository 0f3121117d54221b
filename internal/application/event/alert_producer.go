// Package event provides event producers and consumers for the application layer.
package event

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/event"
)

// AlertProducer publishes alert lifecycle events. Publish failures are
// logged and swallowed: a downstream event-bus outage must never fail the
// alert operation that triggered it.
type AlertProducer struct {
	bus event.Publisher
}

// NewAlertProducer creates a new alert event producer.
func NewAlertProducer(bus event.Publisher) *AlertProducer {
	return &AlertProducer{
		bus: bus,
	}
}

// PublishCreated publishes an alert.created event for a newly persisted alert.
func (p *AlertProducer) PublishCreated(ctx context.Context, alert *entity.Alert) {
	payload := event.AlertPayload{
		AlertID:    alert.ID,
		SourceType: string(alert.SourceType),
		Severity:   string(alert.Severity),
		Status:     string(alert.Status),
		Metadata:   alert.Metadata,
		Timestamp:  alert.Timestamp,
	}

	p.publish(ctx, event.AlertCreated, alert.ID, payload)
}

// PublishTransition publishes the lifecycle event matching transition's
// target status (escalated, auto-closed, or resolved). Transitions to OPEN
// have no corresponding event type and are ignored.
func (p *AlertProducer) PublishTransition(ctx context.Context, alert *entity.Alert, transition entity.AlertStateTransition) {
	var eventType event.Type
	switch transition.ToStatus {
	case entity.AlertStatusEscalated:
		eventType = event.AlertEscalated
	case entity.AlertStatusAutoClosed:
		eventType = event.AlertAutoClosed
	case entity.AlertStatusResolved:
		eventType = event.AlertResolved
	default:
		return
	}

	payload := event.AlertPayload{
		AlertID:        alert.ID,
		SourceType:     string(alert.SourceType),
		Severity:       string(alert.Severity),
		Status:         string(alert.Status),
		PreviousStatus: string(transition.FromStatus),
		Reason:         transition.Reason,
		TriggeredBy:    transition.TriggeredBy,
		RuleTriggered:  transition.RuleTriggered,
		Metadata:       alert.Metadata,
		Timestamp:      transition.Timestamp,
	}

	p.publish(ctx, eventType, alert.ID, payload)
}

func (p *AlertProducer) publish(ctx context.Context, eventType event.Type, alertID string, payload event.AlertPayload) {
	evt, err := event.NewEvent(eventType, payload)
	if err != nil {
		log.Error().Err(err).Str("alert_id", alertID).Str("event_type", string(eventType)).Msg("failed to build lifecycle event")
		return
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		log.Error().Err(err).Str("alert_id", alertID).Str("event_type", string(eventType)).Msg("failed to publish lifecycle event")
	}
}
