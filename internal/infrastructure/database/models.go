package database

import (
	"time"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

// AlertModel represents the database row for alerts. sqlx scans directly
// into this shape; ToEntity converts it into the domain entity.
type AlertModel struct {
	AlertID         string       `db:"alert_id"`
	SourceType      string       `db:"source_type"`
	Severity        string       `db:"severity"`
	Status          string       `db:"status"`
	Timestamp       time.Time    `db:"timestamp"`
	Metadata        JSONMap      `db:"metadata"`
	StateHistory    StateHistory `db:"state_history"`
	EscalatedAt     *time.Time   `db:"escalated_at"`
	ClosedAt        *time.Time   `db:"closed_at"`
	ResolvedAt      *time.Time   `db:"resolved_at"`
	AutoCloseReason *string      `db:"auto_close_reason"`
	ExpiresAt       *time.Time   `db:"expires_at"`
	ResolvedBy      *string      `db:"resolved_by"`
	ResolutionNotes *string      `db:"resolution_notes"`
	CreatedAt       time.Time    `db:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at"`
}

// ToEntity converts the database model to a domain entity.
func (m *AlertModel) ToEntity() *entity.Alert {
	return &entity.Alert{
		ID:              m.AlertID,
		SourceType:      entity.SourceType(m.SourceType),
		Severity:        entity.AlertSeverity(m.Severity),
		Status:          entity.AlertStatus(m.Status),
		Timestamp:       m.Timestamp,
		Metadata:        entity.AlertMetadata(m.Metadata),
		StateHistory:    []entity.AlertStateTransition(m.StateHistory),
		EscalatedAt:     m.EscalatedAt,
		ClosedAt:        m.ClosedAt,
		ResolvedAt:      m.ResolvedAt,
		AutoCloseReason: m.AutoCloseReason,
		ExpiresAt:       m.ExpiresAt,
		ResolvedBy:      m.ResolvedBy,
		ResolutionNotes: m.ResolutionNotes,
		Timestamps: entity.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

// AlertModelFromEntity builds the database row for an alert entity.
func AlertModelFromEntity(a *entity.Alert) *AlertModel {
	return &AlertModel{
		AlertID:         a.ID,
		SourceType:      string(a.SourceType),
		Severity:        string(a.Severity),
		Status:          string(a.Status),
		Timestamp:       a.Timestamp,
		Metadata:        JSONMap(a.Metadata),
		StateHistory:    StateHistory(a.StateHistory),
		EscalatedAt:     a.EscalatedAt,
		ClosedAt:        a.ClosedAt,
		ResolvedAt:      a.ResolvedAt,
		AutoCloseReason: a.AutoCloseReason,
		ExpiresAt:       a.ExpiresAt,
		ResolvedBy:      a.ResolvedBy,
		ResolutionNotes: a.ResolutionNotes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// RuleModel represents the database row for rules.
type RuleModel struct {
	RuleID      string    `db:"rule_id"`
	SourceType  string    `db:"source_type"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Conditions  JSONMap   `db:"conditions"`
	IsActive    bool      `db:"is_active"`
	Priority    int       `db:"priority"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToEntity converts the database model to a domain entity.
func (m *RuleModel) ToEntity() (*entity.Rule, error) {
	var conditions entity.RuleCondition
	if err := remarshal(m.Conditions, &conditions); err != nil {
		return nil, err
	}

	return &entity.Rule{
		ID:          m.RuleID,
		SourceType:  entity.SourceType(m.SourceType),
		Name:        m.Name,
		Description: m.Description,
		Conditions:  conditions,
		IsActive:    m.IsActive,
		Priority:    m.Priority,
		Timestamps: entity.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}, nil
}

// RuleModelFromEntity builds the database row for a rule entity.
func RuleModelFromEntity(r *entity.Rule) (*RuleModel, error) {
	conditions, err := toJSONMap(r.Conditions)
	if err != nil {
		return nil, err
	}

	return &RuleModel{
		RuleID:      r.ID,
		SourceType:  string(r.SourceType),
		Name:        r.Name,
		Description: r.Description,
		Conditions:  conditions,
		IsActive:    r.IsActive,
		Priority:    r.Priority,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// JobModel represents the database row for background_jobs.
type JobModel struct {
	JobID           string      `db:"job_id"`
	JobType         string      `db:"job_type"`
	Status          string      `db:"status"`
	StartedAt       time.Time   `db:"started_at"`
	CompletedAt     *time.Time  `db:"completed_at"`
	ExecutionTimeMs *float64    `db:"execution_time_ms"`
	AlertsProcessed int         `db:"alerts_processed"`
	AlertsClosed    int         `db:"alerts_closed"`
	AlertsEscalated int         `db:"alerts_escalated"`
	Errors          StringArray `db:"errors"`
}

// ToEntity converts the database model to a domain entity.
func (m *JobModel) ToEntity() *entity.BackgroundJob {
	return &entity.BackgroundJob{
		JobID:           m.JobID,
		JobType:         m.JobType,
		Status:          entity.BackgroundJobStatus(m.Status),
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		ExecutionTimeMs: m.ExecutionTimeMs,
		AlertsProcessed: m.AlertsProcessed,
		AlertsClosed:    m.AlertsClosed,
		AlertsEscalated: m.AlertsEscalated,
		Errors:          []string(m.Errors),
	}
}

// JobModelFromEntity builds the database row for a job entity.
func JobModelFromEntity(j *entity.BackgroundJob) *JobModel {
	return &JobModel{
		JobID:           j.JobID,
		JobType:         j.JobType,
		Status:          string(j.Status),
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
		ExecutionTimeMs: j.ExecutionTimeMs,
		AlertsProcessed: j.AlertsProcessed,
		AlertsClosed:    j.AlertsClosed,
		AlertsEscalated: j.AlertsEscalated,
		Errors:          StringArray(j.Errors),
	}
}
