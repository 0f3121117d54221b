package event

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fleetops/alert-engine/internal/domain/event"
)

// AlertConsumer consumes and processes alert lifecycle events.
type AlertConsumer struct {
	handlers []AlertEventHandler
}

// NewAlertConsumer creates a new alert consumer.
func NewAlertConsumer() *AlertConsumer {
	return &AlertConsumer{
		handlers: make([]AlertEventHandler, 0),
	}
}

// RegisterHandler registers an event handler.
func (c *AlertConsumer) RegisterHandler(handler AlertEventHandler) {
	c.handlers = append(c.handlers, handler)
}

// Handle processes an event from the event bus.
func (c *AlertConsumer) Handle(ctx context.Context, evt *event.Event) error {
	log.Debug().
		Str("event_id", evt.ID).
		Str("event_type", string(evt.Type)).
		Int("retries", evt.Retries).
		Msg("Processing event")

	switch evt.Type {
	case event.AlertCreated:
		return c.handleAlertCreated(ctx, evt)
	case event.AlertEscalated:
		return c.handleAlertEscalated(ctx, evt)
	case event.AlertAutoClosed:
		return c.handleAlertAutoClosed(ctx, evt)
	case event.AlertResolved:
		return c.handleAlertResolved(ctx, evt)
	default:
		log.Warn().Str("event_type", string(evt.Type)).Msg("Unknown event type")
		return nil
	}
}

func (c *AlertConsumer) handleAlertCreated(ctx context.Context, evt *event.Event) error {
	var payload event.AlertPayload
	if err := evt.UnmarshalPayload(&payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal alert created payload")
		return err
	}

	for _, handler := range c.handlers {
		if err := handler.HandleAlertCreated(ctx, payload); err != nil {
			log.Error().Err(err).Str("alert_id", payload.AlertID).Msg("Handler failed for alert.created")
			return err
		}
	}

	return nil
}

func (c *AlertConsumer) handleAlertEscalated(ctx context.Context, evt *event.Event) error {
	var payload event.AlertPayload
	if err := evt.UnmarshalPayload(&payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal alert escalated payload")
		return err
	}

	for _, handler := range c.handlers {
		if err := handler.HandleAlertEscalated(ctx, payload); err != nil {
			log.Error().Err(err).Str("alert_id", payload.AlertID).Msg("Handler failed for alert.escalated")
			return err
		}
	}

	return nil
}

func (c *AlertConsumer) handleAlertAutoClosed(ctx context.Context, evt *event.Event) error {
	var payload event.AlertPayload
	if err := evt.UnmarshalPayload(&payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal alert auto-closed payload")
		return err
	}

	for _, handler := range c.handlers {
		if err := handler.HandleAlertAutoClosed(ctx, payload); err != nil {
			log.Error().Err(err).Str("alert_id", payload.AlertID).Msg("Handler failed for alert.auto_closed")
			return err
		}
	}

	return nil
}

func (c *AlertConsumer) handleAlertResolved(ctx context.Context, evt *event.Event) error {
	var payload event.AlertPayload
	if err := evt.UnmarshalPayload(&payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal alert resolved payload")
		return err
	}

	for _, handler := range c.handlers {
		if err := handler.HandleAlertResolved(ctx, payload); err != nil {
			log.Error().Err(err).Str("alert_id", payload.AlertID).Msg("Handler failed for alert.resolved")
			return err
		}
	}

	return nil
}
