package valueobject

import (
	"time"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

// AlertFilter represents filtering criteria for querying alerts.
// It uses a fluent builder pattern to construct type-safe queries.
// All filter methods return a new AlertFilter, allowing method chaining.
//
// Example usage:
//
//	filter := NewAlertFilter().
//		WithStatuses(entity.AlertStatusOpen).
//		WithSeverities(entity.AlertSeverityCritical).
//		WithDateRange(startDate, endDate)
type AlertFilter struct {
	// Statuses filters alerts by their current status.
	Statuses []entity.AlertStatus
	// SourceTypes filters alerts by originating source type.
	SourceTypes []entity.SourceType
	// Severities filters alerts by severity level.
	Severities []entity.AlertSeverity
	// DriverID filters alerts by metadata.driver_id.
	DriverID *string
	// FromDate filters alerts with Timestamp on or after this instant.
	FromDate *time.Time
	// ToDate filters alerts with Timestamp on or before this instant.
	ToDate *time.Time
}

// NewAlertFilter creates an empty AlertFilter with no criteria set.
func NewAlertFilter() AlertFilter {
	return AlertFilter{}
}

// WithStatuses adds a status filter to include only alerts with the specified statuses.
func (f AlertFilter) WithStatuses(statuses ...entity.AlertStatus) AlertFilter {
	f.Statuses = statuses
	return f
}

// WithSourceTypes adds a source type filter.
func (f AlertFilter) WithSourceTypes(sourceTypes ...entity.SourceType) AlertFilter {
	f.SourceTypes = sourceTypes
	return f
}

// WithSeverities adds a severity filter to include only alerts with the specified severities.
func (f AlertFilter) WithSeverities(severities ...entity.AlertSeverity) AlertFilter {
	f.Severities = severities
	return f
}

// WithDriverID adds a metadata.driver_id filter.
func (f AlertFilter) WithDriverID(driverID string) AlertFilter {
	f.DriverID = &driverID
	return f
}

// WithDateRange adds a date range filter over the alert's Timestamp field.
// Both from and to dates are inclusive.
func (f AlertFilter) WithDateRange(from, to time.Time) AlertFilter {
	f.FromDate = &from
	f.ToDate = &to
	return f
}

// ActiveOnly is a convenience method that filters for alerts not yet in a
// terminal state. Equivalent to WithStatuses(OPEN, ESCALATED).
func (f AlertFilter) ActiveOnly() AlertFilter {
	return f.WithStatuses(entity.AlertStatusOpen, entity.AlertStatusEscalated)
}

// CriticalOnly is a convenience method that filters for critical severity alerts only.
func (f AlertFilter) CriticalOnly() AlertFilter {
	return f.WithSeverities(entity.AlertSeverityCritical)
}

// NeedsAttention is a convenience method that filters for alerts requiring
// immediate attention: non-terminal and critical.
func (f AlertFilter) NeedsAttention() AlertFilter {
	return f.WithStatuses(entity.AlertStatusOpen, entity.AlertStatusEscalated).
		WithSeverities(entity.AlertSeverityCritical)
}

// HasStatusFilter returns true if at least one status filter is set.
func (f AlertFilter) HasStatusFilter() bool {
	return len(f.Statuses) > 0
}

// HasSourceTypeFilter returns true if at least one source type filter is set.
func (f AlertFilter) HasSourceTypeFilter() bool {
	return len(f.SourceTypes) > 0
}

// HasSeverityFilter returns true if at least one severity filter is set.
func (f AlertFilter) HasSeverityFilter() bool {
	return len(f.Severities) > 0
}

// HasDateFilter returns true if either FromDate or ToDate is set.
func (f AlertFilter) HasDateFilter() bool {
	return f.FromDate != nil || f.ToDate != nil
}

// IsEmpty returns true if no filtering criteria are set.
// Useful to determine if a full table scan would be performed.
func (f AlertFilter) IsEmpty() bool {
	return !f.HasStatusFilter() &&
		!f.HasSourceTypeFilter() &&
		!f.HasSeverityFilter() &&
		f.DriverID == nil &&
		!f.HasDateFilter()
}
