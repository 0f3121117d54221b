// Package database provides PostgreSQL-backed implementations of repository interfaces.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

// Ensure PostgresAlertRepository implements repository.AlertRepository
var _ repository.AlertRepository = (*PostgresAlertRepository)(nil)

const alertColumns = `alert_id, source_type, severity, status, timestamp, metadata,
	state_history, escalated_at, closed_at, resolved_at, auto_close_reason,
	expires_at, resolved_by, resolution_notes, created_at, updated_at`

// PostgresAlertRepository implements AlertRepository using PostgreSQL.
type PostgresAlertRepository struct {
	db *sqlx.DB
}

// NewPostgresAlertRepository creates a new PostgreSQL alert repository.
func NewPostgresAlertRepository(db *PostgresDB) *PostgresAlertRepository {
	return &PostgresAlertRepository{db: db.DB}
}

// Create saves a new alert to the database.
func (r *PostgresAlertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	m := AlertModelFromEntity(alert)

	query := fmt.Sprintf(`
		INSERT INTO alerts (%s)
		VALUES (:alert_id, :source_type, :severity, :status, :timestamp, :metadata,
			:state_history, :escalated_at, :closed_at, :resolved_at, :auto_close_reason,
			:expires_at, :resolved_by, :resolution_notes, :created_at, :updated_at)
	`, alertColumns)

	_, err := r.db.NamedExecContext(ctx, query, m)
	return TranslateError(err)
}

// GetByID finds an alert by its alert_id.
func (r *PostgresAlertRepository) GetByID(ctx context.Context, alertID string) (*entity.Alert, error) {
	query := fmt.Sprintf(`SELECT %s FROM alerts WHERE alert_id = $1`, alertColumns)

	var m AlertModel
	if err := r.db.GetContext(ctx, &m, query, alertID); err != nil {
		return nil, TranslateError(err)
	}

	return m.ToEntity(), nil
}

// CompareAndSwapStatus applies a state transition atomically, updating the
// row only if status still equals expectedStatus. Returns ErrConflict if
// the status already moved, ErrNotFound if the alert doesn't exist.
func (r *PostgresAlertRepository) CompareAndSwapStatus(ctx context.Context, alertID string, expectedStatus entity.AlertStatus, transition entity.AlertStateTransition, updated *entity.Alert) error {
	m := AlertModelFromEntity(updated)

	query := `
		UPDATE alerts
		SET status = :status, severity = :severity, metadata = :metadata,
			state_history = :state_history, escalated_at = :escalated_at,
			closed_at = :closed_at, resolved_at = :resolved_at,
			auto_close_reason = :auto_close_reason, resolved_by = :resolved_by,
			resolution_notes = :resolution_notes, updated_at = :updated_at
		WHERE alert_id = :alert_id AND status = :expected_status
	`

	params := map[string]interface{}{
		"alert_id":          m.AlertID,
		"status":            m.Status,
		"severity":          m.Severity,
		"metadata":          m.Metadata,
		"state_history":     m.StateHistory,
		"escalated_at":      m.EscalatedAt,
		"closed_at":         m.ClosedAt,
		"resolved_at":       m.ResolvedAt,
		"auto_close_reason": m.AutoCloseReason,
		"resolved_by":       m.ResolvedBy,
		"resolution_notes":  m.ResolutionNotes,
		"updated_at":        m.UpdatedAt,
		"expected_status":   string(expectedStatus),
	}

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return TranslateError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return TranslateError(err)
	}

	if rowsAffected == 0 {
		// Distinguish "alert doesn't exist" from "alert changed underneath us".
		if _, getErr := r.GetByID(ctx, alertID); getErr != nil {
			return getErr
		}
		return repository.ErrConflict
	}

	return nil
}

// List returns a filtered, paginated page of alerts plus the total
// matching count, computed from a single query via COUNT(*) OVER().
func (r *PostgresAlertRepository) List(ctx context.Context, filter valueobject.AlertFilter, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Alert], error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM alerts
		%s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d
	`, alertColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, pagination.Limit(), pagination.Offset())

	type row struct {
		AlertModel
		TotalCount int64 `db:"total_count"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, TranslateError(err)
	}

	alerts := make([]*entity.Alert, 0, len(rows))
	var total int64
	for i := range rows {
		alerts = append(alerts, rows[i].AlertModel.ToEntity())
		total = rows[i].TotalCount
	}

	result := valueobject.NewPaginatedResult(alerts, total, pagination)
	return &result, nil
}

// buildWhereClause constructs the WHERE clause based on filters.
func (r *PostgresAlertRepository) buildWhereClause(filter valueobject.AlertFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.HasStatusFilter() {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, status)
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.HasSourceTypeFilter() {
		placeholders := make([]string, len(filter.SourceTypes))
		for i, st := range filter.SourceTypes {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, st)
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("source_type IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.HasSeverityFilter() {
		placeholders := make([]string, len(filter.Severities))
		for i, severity := range filter.Severities {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, severity)
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ", ")))
	}

	if filter.DriverID != nil {
		conditions = append(conditions, fmt.Sprintf("metadata->>'driver_id' = $%d", argIndex))
		args = append(args, *filter.DriverID)
		argIndex++
	}

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", argIndex))
		args = append(args, *filter.FromDate)
		argIndex++
	}

	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", argIndex))
		args = append(args, *filter.ToDate)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// ListActive returns all alerts in a non-terminal status.
func (r *PostgresAlertRepository) ListActive(ctx context.Context) ([]*entity.Alert, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM alerts
		WHERE status IN ($1, $2)
		ORDER BY severity ASC, timestamp DESC
	`, alertColumns)

	var models []AlertModel
	if err := r.db.SelectContext(ctx, &models, query, entity.AlertStatusOpen, entity.AlertStatusEscalated); err != nil {
		return nil, TranslateError(err)
	}

	alerts := make([]*entity.Alert, 0, len(models))
	for i := range models {
		alerts = append(alerts, models[i].ToEntity())
	}

	return alerts, nil
}

// ListSimilar returns non-terminal alerts for the same driver and source
// type, with timestamp at or after since, optionally excluding one alert.
func (r *PostgresAlertRepository) ListSimilar(ctx context.Context, driverID string, sourceType entity.SourceType, since time.Time, excludeAlertID string) ([]*entity.Alert, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM alerts
		WHERE metadata->>'driver_id' = $1
			AND source_type = $2
			AND status IN ($3, $4)
			AND timestamp >= $5
			AND ($6 = '' OR alert_id != $6)
	`, alertColumns)

	var models []AlertModel
	if err := r.db.SelectContext(ctx, &models, query,
		driverID, sourceType, entity.AlertStatusOpen, entity.AlertStatusEscalated, since, excludeAlertID); err != nil {
		return nil, TranslateError(err)
	}

	alerts := make([]*entity.Alert, 0, len(models))
	for i := range models {
		alerts = append(alerts, models[i].ToEntity())
	}

	return alerts, nil
}

// Count returns the total number of alerts.
func (r *PostgresAlertRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM alerts`); err != nil {
		return 0, TranslateError(err)
	}
	return count, nil
}

// GetStatistics returns aggregated alert statistics.
func (r *PostgresAlertRepository) GetStatistics(ctx context.Context) (*repository.AlertStatistics, error) {
	stats := &repository.AlertStatistics{
		BySeverity:   make(map[string]int64),
		BySourceType: make(map[string]int64),
	}

	statusQuery := `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'OPEN') as open,
			COUNT(*) FILTER (WHERE status = 'ESCALATED') as escalated,
			COUNT(*) FILTER (WHERE status = 'AUTO_CLOSED') as auto_closed,
			COUNT(*) FILTER (WHERE status = 'RESOLVED') as resolved
		FROM alerts
	`

	var statusStats struct {
		Total      int64 `db:"total"`
		Open       int64 `db:"open"`
		Escalated  int64 `db:"escalated"`
		AutoClosed int64 `db:"auto_closed"`
		Resolved   int64 `db:"resolved"`
	}

	if err := r.db.GetContext(ctx, &statusStats, statusQuery); err != nil {
		return nil, TranslateError(err)
	}

	stats.TotalAlerts = statusStats.Total
	stats.OpenAlerts = statusStats.Open
	stats.EscalatedAlerts = statusStats.Escalated
	stats.AutoClosed = statusStats.AutoClosed
	stats.Resolved = statusStats.Resolved

	severityQuery := `SELECT severity, COUNT(*) as count FROM alerts GROUP BY severity`
	var severityCounts []struct {
		Severity string `db:"severity"`
		Count    int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &severityCounts, severityQuery); err != nil {
		return nil, TranslateError(err)
	}
	for _, sc := range severityCounts {
		stats.BySeverity[sc.Severity] = sc.Count
	}

	sourceQuery := `SELECT source_type, COUNT(*) as count FROM alerts GROUP BY source_type`
	var sourceCounts []struct {
		SourceType string `db:"source_type"`
		Count      int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &sourceCounts, sourceQuery); err != nil {
		return nil, TranslateError(err)
	}
	for _, sc := range sourceCounts {
		stats.BySourceType[sc.SourceType] = sc.Count
	}

	return stats, nil
}
