package event

import (
	"context"

	"github.com/fleetops/alert-engine/internal/domain/event"
)

// AlertEventHandler handles alert lifecycle events from the event bus.
type AlertEventHandler interface {
	HandleAlertCreated(ctx context.Context, payload event.AlertPayload) error
	HandleAlertEscalated(ctx context.Context, payload event.AlertPayload) error
	HandleAlertAutoClosed(ctx context.Context, payload event.AlertPayload) error
	HandleAlertResolved(ctx context.Context, payload event.AlertPayload) error
}
