package event

import "time"

// AlertPayload represents the payload carried by alert lifecycle events.
type AlertPayload struct {
	AlertID         string                 `json:"alert_id"`
	SourceType      string                 `json:"source_type"`
	Severity        string                 `json:"severity"`
	Status          string                 `json:"status"`
	PreviousStatus  string                 `json:"previous_status"`
	Reason          string                 `json:"reason,omitempty"`
	TriggeredBy     string                 `json:"triggered_by"`
	RuleTriggered   *string                `json:"rule_triggered,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
}
