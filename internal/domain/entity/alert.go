package entity

import (
	"errors"
	"time"
)

// SourceType identifies the originating domain channel for an alert.
type SourceType string

// Supported source types.
const (
	SourceOverspeeding   SourceType = "OVERSPEEDING"
	SourceCompliance     SourceType = "COMPLIANCE"
	SourceFeedbackNeg    SourceType = "FEEDBACK_NEGATIVE"
	SourceFeedbackPos    SourceType = "FEEDBACK_POSITIVE"
	SourceDocumentExpiry SourceType = "DOCUMENT_EXPIRY"
	SourceSafety         SourceType = "SAFETY"
)

// IsValid checks if the source type is a valid SourceType value.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceOverspeeding, SourceCompliance, SourceFeedbackNeg, SourceFeedbackPos, SourceDocumentExpiry, SourceSafety:
		return true
	default:
		return false
	}
}

// Prefix returns the alert-ID prefix assigned to this source type.
// Callers must check IsValid first; NewAlert always does.
func (s SourceType) Prefix() string {
	switch s {
	case SourceOverspeeding:
		return "OSP"
	case SourceCompliance:
		return "CMP"
	case SourceFeedbackNeg:
		return "FBN"
	case SourceFeedbackPos:
		return "FBP"
	case SourceDocumentExpiry:
		return "DOC"
	case SourceSafety:
		return "SAF"
	default:
		return ""
	}
}

// DefaultSeverity returns the severity a new alert of this source type
// receives when the caller does not supply one explicitly.
func (s SourceType) DefaultSeverity() AlertSeverity {
	switch s {
	case SourceSafety:
		return AlertSeverityCritical
	case SourceOverspeeding, SourceFeedbackNeg, SourceDocumentExpiry:
		return AlertSeverityWarning
	case SourceCompliance, SourceFeedbackPos:
		return AlertSeverityInfo
	default:
		return AlertSeverityInfo
	}
}

// AlertSeverity defines the severity levels for alerts.
// Used to prioritize and categorize alerts by their impact level.
type AlertSeverity string

// Alert severity constants ordered from most to least critical.
const (
	// AlertSeverityCritical indicates a system-critical issue requiring immediate action.
	AlertSeverityCritical AlertSeverity = "CRITICAL"
	// AlertSeverityWarning indicates an issue that should be addressed soon.
	AlertSeverityWarning AlertSeverity = "WARNING"
	// AlertSeverityInfo indicates an informational alert with no immediate action required.
	AlertSeverityInfo AlertSeverity = "INFO"
)

// IsValid checks if the severity is a valid AlertSeverity value.
func (s AlertSeverity) IsValid() bool {
	switch s {
	case AlertSeverityCritical, AlertSeverityWarning, AlertSeverityInfo:
		return true
	default:
		return false
	}
}

// Priority returns a numeric value for sorting alerts by severity.
// Lower number indicates higher priority (1 = critical, 3 = info).
func (s AlertSeverity) Priority() int {
	switch s {
	case AlertSeverityCritical:
		return 1
	case AlertSeverityWarning:
		return 2
	case AlertSeverityInfo:
		return 3
	default:
		return 99
	}
}

// AlertStatus defines the possible states of an alert in its lifecycle.
type AlertStatus string

// Alert status constants representing the alert lifecycle stages.
// AlertStatusAutoClosed and AlertStatusResolved are terminal.
const (
	AlertStatusOpen       AlertStatus = "OPEN"
	AlertStatusEscalated  AlertStatus = "ESCALATED"
	AlertStatusAutoClosed AlertStatus = "AUTO_CLOSED"
	AlertStatusResolved   AlertStatus = "RESOLVED"
)

// IsValid checks if the status is a valid AlertStatus value.
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusOpen, AlertStatusEscalated, AlertStatusAutoClosed, AlertStatusResolved:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are permitted from this status.
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusAutoClosed || s == AlertStatusResolved
}

// allowedAlertTransitions is the single source of truth for the alert state
// machine, consulted by StateMachine.Transition.
var allowedAlertTransitions = map[AlertStatus][]AlertStatus{
	AlertStatusOpen:       {AlertStatusEscalated, AlertStatusAutoClosed, AlertStatusResolved},
	AlertStatusEscalated:  {AlertStatusAutoClosed, AlertStatusResolved},
	AlertStatusAutoClosed: {},
	AlertStatusResolved:   {},
}

// CanTransitionAlertStatus reports whether moving from `from` to `to` is
// allowed. Self-transitions are always rejected.
func CanTransitionAlertStatus(from, to AlertStatus) bool {
	if from == to {
		return false
	}
	for _, candidate := range allowedAlertTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// AlertMetadata is the alert's opaque key/value payload. The core
// semantically reads only driver_id (count-in-window grouping) and
// document_valid (the auto-close predicate); every other key is carried
// through unread.
type AlertMetadata map[string]interface{}

// DriverID extracts metadata.driver_id, the grouping key the rule engine reads.
func (m AlertMetadata) DriverID() (string, bool) {
	v, ok := m["driver_id"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// DocumentValid extracts metadata.document_valid for the document_valid
// auto-close predicate.
func (m AlertMetadata) DocumentValid() bool {
	v, ok := m["document_valid"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// AlertStateTransition is an immutable record of one lifecycle step.
// The state_history sequence is the system's audit log; derived timestamp
// fields on Alert are query conveniences, never authoritative.
type AlertStateTransition struct {
	FromStatus    AlertStatus `json:"from_status"`
	ToStatus      AlertStatus `json:"to_status"`
	Timestamp     time.Time   `json:"timestamp"`
	Reason        string      `json:"reason"`
	TriggeredBy   string      `json:"triggered_by"`
	RuleTriggered *string     `json:"rule_triggered,omitempty"`
}

// Alert represents an alert in the alert lifecycle engine.
// It tracks the alert lifecycle from creation through escalation,
// auto-closure, or manual resolution.
type Alert struct {
	// ID is the alert's human-readable identifier, e.g. "OSP-2026-00042".
	ID string `json:"alert_id" db:"alert_id"`
	// SourceType identifies the originating domain channel.
	SourceType SourceType `json:"source_type" db:"source_type"`
	// Severity indicates the alert's priority level.
	Severity AlertSeverity `json:"severity" db:"severity"`
	// Status indicates the current state of the alert.
	Status AlertStatus `json:"status" db:"status"`
	// Timestamp is when the triggering condition was observed.
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	// Metadata stores additional key-value data associated with the alert.
	Metadata AlertMetadata `json:"metadata,omitempty" db:"metadata"`
	// StateHistory is the ordered, append-only log of lifecycle transitions.
	StateHistory []AlertStateTransition `json:"state_history" db:"state_history"`
	// EscalatedAt is the timestamp of the OPEN->ESCALATED transition, if any.
	EscalatedAt *time.Time `json:"escalated_at,omitempty" db:"escalated_at"`
	// ClosedAt is the timestamp of the ->AUTO_CLOSED transition, if any.
	ClosedAt *time.Time `json:"closed_at,omitempty" db:"closed_at"`
	// ResolvedAt is the timestamp of the ->RESOLVED transition, if any.
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	// AutoCloseReason records why the rule engine closed the alert.
	AutoCloseReason *string `json:"auto_close_reason,omitempty" db:"auto_close_reason"`
	// ExpiresAt is when the alert becomes eligible for time-based auto-closure.
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	// ResolvedBy is the opaque id of the user who resolved the alert.
	ResolvedBy *string `json:"resolved_by,omitempty" db:"resolved_by"`
	// ResolutionNotes is the free-text note attached on manual resolution.
	ResolutionNotes *string `json:"resolution_notes,omitempty" db:"resolution_notes"`
	// Timestamps embeds creation and update audit fields.
	Timestamps
}

// DefaultExpiration is the retention window before an alert becomes
// eligible for time-based auto-closure.
const DefaultExpiration = 7 * 24 * time.Hour

// Alert validation errors.
// Defined as variables to allow comparison using errors.Is().
var (
	ErrAlertInvalidSourceType = errors.New("invalid alert source type")
	ErrAlertInvalidSeverity   = errors.New("invalid alert severity")
	ErrAlertInvalidStatus     = errors.New("invalid alert status")
)

// NewAlert creates a new OPEN alert with the synthetic first state-history
// record and default expiration, and validates it. It does not assign an
// ID: the caller obtains one from the ID generator and sets it before
// persisting.
func NewAlert(sourceType SourceType, severity AlertSeverity, metadata AlertMetadata) (*Alert, error) {
	if severity == "" {
		severity = sourceType.DefaultSeverity()
	}

	if metadata == nil {
		metadata = make(AlertMetadata)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(DefaultExpiration)

	alert := &Alert{
		SourceType: sourceType,
		Severity:   severity,
		Status:     AlertStatusOpen,
		Timestamp:  now,
		Metadata:   metadata,
		StateHistory: []AlertStateTransition{
			{
				FromStatus:  AlertStatusOpen,
				ToStatus:    AlertStatusOpen,
				Timestamp:   now,
				Reason:      "Alert created",
				TriggeredBy: "system",
			},
		},
		ExpiresAt:  &expiresAt,
		Timestamps: NewTimestamps(),
	}

	if err := alert.Validate(); err != nil {
		return nil, err
	}

	return alert, nil
}

// Validate checks that all alert fields contain valid data.
// Returns the first validation error encountered, or nil if valid.
func (a *Alert) Validate() error {
	if !a.SourceType.IsValid() {
		return ErrAlertInvalidSourceType
	}

	if !a.Severity.IsValid() {
		return ErrAlertInvalidSeverity
	}

	if !a.Status.IsValid() {
		return ErrAlertInvalidStatus
	}

	return nil
}

// IsExpired reports whether the alert's retention window has elapsed.
// The boundary is inclusive: now == ExpiresAt counts as expired.
func (a *Alert) IsExpired(now time.Time) bool {
	if a.ExpiresAt == nil {
		return false
	}
	return !now.Before(*a.ExpiresAt)
}

// ApplyTransition appends a transition record, updates Status and the
// matching derived timestamp, and touches UpdatedAt. It does not validate
// the transition: callers go through StateMachine.Transition for that.
func (a *Alert) ApplyTransition(t AlertStateTransition) {
	a.StateHistory = append(a.StateHistory, t)
	a.Status = t.ToStatus

	switch t.ToStatus {
	case AlertStatusEscalated:
		ts := t.Timestamp
		a.EscalatedAt = &ts
		a.Severity = AlertSeverityCritical
	case AlertStatusAutoClosed:
		ts := t.Timestamp
		a.ClosedAt = &ts
		reason := t.Reason
		a.AutoCloseReason = &reason
	case AlertStatusResolved:
		ts := t.Timestamp
		a.ResolvedAt = &ts
	}

	a.Touch()
}

// IsCritical checks if the alert has critical severity.
func (a *Alert) IsCritical() bool {
	return a.Severity == AlertSeverityCritical
}

// NeedsImmediateAttention checks if the alert requires immediate attention.
// Returns true if the alert is open or escalated and has critical severity.
func (a *Alert) NeedsImmediateAttention() bool {
	return !a.Status.IsTerminal() && a.Severity == AlertSeverityCritical
}

// ReplayStatus walks StateHistory's ToStatus sequence and returns the final
// status it produces. Used to assert state_history remains the
// authoritative replay source.
func (a *Alert) ReplayStatus() AlertStatus {
	if len(a.StateHistory) == 0 {
		return ""
	}
	return a.StateHistory[len(a.StateHistory)-1].ToStatus
}
