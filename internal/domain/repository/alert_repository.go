// Package repository provides interfaces for data persistence operations
// on the alert lifecycle engine's entities.
package repository

import (
	"context"
	"time"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

// AlertRepository defines the persistence operations for alerts.
type AlertRepository interface {
	// Create saves a new alert.
	Create(ctx context.Context, alert *entity.Alert) error

	// GetByID finds an alert by its human-readable alert_id.
	// Returns ErrNotFound if it doesn't exist.
	GetByID(ctx context.Context, alertID string) (*entity.Alert, error)

	// CompareAndSwapStatus applies a state transition atomically, updating
	// status, the derived timestamp fields, and appending to state_history,
	// but only if the alert's current status still equals expectedStatus.
	// Returns ErrConflict if the status changed underneath the caller, or
	// ErrNotFound if the alert doesn't exist.
	CompareAndSwapStatus(ctx context.Context, alertID string, expectedStatus entity.AlertStatus, transition entity.AlertStateTransition, updated *entity.Alert) error

	// List returns a filtered, paginated page of alerts alongside the total
	// matching count, computed from a single store query.
	List(ctx context.Context, filter valueobject.AlertFilter, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Alert], error)

	// ListActive returns all alerts in a non-terminal status (OPEN, ESCALATED).
	ListActive(ctx context.Context) ([]*entity.Alert, error)

	// ListSimilar returns alerts for the same driver and source type, in a
	// non-terminal status, with Timestamp at or after since, optionally
	// excluding one alert_id from the result.
	ListSimilar(ctx context.Context, driverID string, sourceType entity.SourceType, since time.Time, excludeAlertID string) ([]*entity.Alert, error)

	// Count returns the total number of alerts.
	Count(ctx context.Context) (int64, error)

	// GetStatistics returns aggregated alert statistics.
	GetStatistics(ctx context.Context) (*AlertStatistics, error)
}

// AlertStatistics summarizes the current alert population.
type AlertStatistics struct {
	TotalAlerts     int64            `json:"total_alerts"`
	OpenAlerts      int64            `json:"open_alerts"`
	EscalatedAlerts int64            `json:"escalated_alerts"`
	AutoClosed      int64            `json:"auto_closed_alerts"`
	Resolved        int64            `json:"resolved_alerts"`
	BySeverity      map[string]int64 `json:"by_severity"`
	BySourceType    map[string]int64 `json:"by_source_type"`
}
