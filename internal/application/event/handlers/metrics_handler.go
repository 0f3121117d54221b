package handlers

import (
	"context"
	"sync/atomic"

	"github.com/fleetops/alert-engine/internal/domain/event"
)

// MetricsHandler collects in-process counters from alert lifecycle events.
type MetricsHandler struct {
	alertsCreated    int64
	alertsEscalated  int64
	alertsAutoClosed int64
	alertsResolved   int64
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// HandleAlertCreated increments the alerts created counter.
func (h *MetricsHandler) HandleAlertCreated(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsCreated, 1)
	return nil
}

// HandleAlertEscalated increments the alerts escalated counter.
func (h *MetricsHandler) HandleAlertEscalated(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsEscalated, 1)
	return nil
}

// HandleAlertAutoClosed increments the alerts auto-closed counter.
func (h *MetricsHandler) HandleAlertAutoClosed(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsAutoClosed, 1)
	return nil
}

// HandleAlertResolved increments the alerts resolved counter.
func (h *MetricsHandler) HandleAlertResolved(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsResolved, 1)
	return nil
}

// GetMetrics returns the current metrics.
func (h *MetricsHandler) GetMetrics() map[string]int64 {
	return map[string]int64{
		"alerts_created":     atomic.LoadInt64(&h.alertsCreated),
		"alerts_escalated":   atomic.LoadInt64(&h.alertsEscalated),
		"alerts_auto_closed": atomic.LoadInt64(&h.alertsAutoClosed),
		"alerts_resolved":    atomic.LoadInt64(&h.alertsResolved),
	}
}
