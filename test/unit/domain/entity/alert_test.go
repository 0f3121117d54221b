package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

func TestNewAlert_Success(t *testing.T) {
	// Act
	alert, err := entity.NewAlert(entity.SourceOverspeeding, "", entity.AlertMetadata{"driver_id": "D-1"})

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, alert)
	assert.Equal(t, entity.AlertStatusOpen, alert.Status)
	assert.Equal(t, entity.SourceOverspeeding.DefaultSeverity(), alert.Severity)
	assert.Len(t, alert.StateHistory, 1)
	assert.Equal(t, entity.AlertStatusOpen, alert.StateHistory[0].ToStatus)
	require.NotNil(t, alert.ExpiresAt)
	assert.WithinDuration(t, alert.Timestamp.Add(entity.DefaultExpiration), *alert.ExpiresAt, time.Second)
}

func TestNewAlert_ExplicitSeverityOverridesDefault(t *testing.T) {
	// Act
	alert, err := entity.NewAlert(entity.SourceCompliance, entity.AlertSeverityCritical, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.AlertSeverityCritical, alert.Severity)
	assert.NotNil(t, alert.Metadata)
}

func TestNewAlert_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name        string
		sourceType  entity.SourceType
		severity    entity.AlertSeverity
		expectedErr error
	}{
		{
			name:        "invalid source type",
			sourceType:  entity.SourceType("UNKNOWN"),
			severity:    entity.AlertSeverityWarning,
			expectedErr: entity.ErrAlertInvalidSourceType,
		},
		{
			name:        "invalid severity",
			sourceType:  entity.SourceOverspeeding,
			severity:    entity.AlertSeverity("invalid"),
			expectedErr: entity.ErrAlertInvalidSeverity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alert, err := entity.NewAlert(tc.sourceType, tc.severity, nil)

			assert.Nil(t, alert)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestAlertSeverity_Priority(t *testing.T) {
	assert.Equal(t, 1, entity.AlertSeverityCritical.Priority())
	assert.Equal(t, 2, entity.AlertSeverityWarning.Priority())
	assert.Equal(t, 3, entity.AlertSeverityInfo.Priority())
	assert.Less(t, entity.AlertSeverityCritical.Priority(), entity.AlertSeverityWarning.Priority())
}

func TestSourceType_Prefix(t *testing.T) {
	assert.Equal(t, "OSP", entity.SourceOverspeeding.Prefix())
	assert.Equal(t, "SAF", entity.SourceSafety.Prefix())
	assert.Empty(t, entity.SourceType("UNKNOWN").Prefix())
}

func TestCanTransitionAlertStatus(t *testing.T) {
	assert.True(t, entity.CanTransitionAlertStatus(entity.AlertStatusOpen, entity.AlertStatusEscalated))
	assert.True(t, entity.CanTransitionAlertStatus(entity.AlertStatusOpen, entity.AlertStatusAutoClosed))
	assert.True(t, entity.CanTransitionAlertStatus(entity.AlertStatusEscalated, entity.AlertStatusResolved))
	assert.False(t, entity.CanTransitionAlertStatus(entity.AlertStatusAutoClosed, entity.AlertStatusResolved))
	assert.False(t, entity.CanTransitionAlertStatus(entity.AlertStatusOpen, entity.AlertStatusOpen))
}

func TestAlertStatus_IsTerminal(t *testing.T) {
	assert.True(t, entity.AlertStatusAutoClosed.IsTerminal())
	assert.True(t, entity.AlertStatusResolved.IsTerminal())
	assert.False(t, entity.AlertStatusOpen.IsTerminal())
	assert.False(t, entity.AlertStatusEscalated.IsTerminal())
}

func TestAlert_ApplyTransition_Escalated(t *testing.T) {
	// Arrange
	alert, _ := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)
	now := time.Now().UTC()

	// Act
	alert.ApplyTransition(entity.AlertStateTransition{
		FromStatus:  entity.AlertStatusOpen,
		ToStatus:    entity.AlertStatusEscalated,
		Timestamp:   now,
		Reason:      "repeat_count_exceeded",
		TriggeredBy: "rule_engine",
	})

	// Assert
	assert.Equal(t, entity.AlertStatusEscalated, alert.Status)
	assert.Equal(t, entity.AlertSeverityCritical, alert.Severity)
	require.NotNil(t, alert.EscalatedAt)
	assert.Len(t, alert.StateHistory, 2)
}

func TestAlert_ApplyTransition_AutoClosed(t *testing.T) {
	// Arrange
	alert, _ := entity.NewAlert(entity.SourceDocumentExpiry, entity.AlertSeverityWarning, nil)
	now := time.Now().UTC()

	// Act
	alert.ApplyTransition(entity.AlertStateTransition{
		FromStatus:  entity.AlertStatusOpen,
		ToStatus:    entity.AlertStatusAutoClosed,
		Timestamp:   now,
		Reason:      "document_valid",
		TriggeredBy: "scanner",
	})

	// Assert
	assert.Equal(t, entity.AlertStatusAutoClosed, alert.Status)
	require.NotNil(t, alert.ClosedAt)
	require.NotNil(t, alert.AutoCloseReason)
	assert.Equal(t, "document_valid", *alert.AutoCloseReason)
}

func TestAlert_ApplyTransition_Resolved(t *testing.T) {
	// Arrange
	alert, _ := entity.NewAlert(entity.SourceSafety, entity.AlertSeverityCritical, nil)
	now := time.Now().UTC()

	// Act
	alert.ApplyTransition(entity.AlertStateTransition{
		FromStatus:  entity.AlertStatusOpen,
		ToStatus:    entity.AlertStatusResolved,
		Timestamp:   now,
		Reason:      "manually closed by dispatcher",
		TriggeredBy: "user:42",
	})

	// Assert
	assert.Equal(t, entity.AlertStatusResolved, alert.Status)
	require.NotNil(t, alert.ResolvedAt)
}

func TestAlert_IsExpired(t *testing.T) {
	// Arrange
	alert, _ := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)

	// Act / Assert: future expiration is not expired
	future := time.Now().Add(time.Hour)
	alert.ExpiresAt = &future
	assert.False(t, alert.IsExpired(time.Now()))

	// Act / Assert: past expiration is expired
	past := time.Now().Add(-time.Hour)
	alert.ExpiresAt = &past
	assert.True(t, alert.IsExpired(time.Now()))
}

func TestAlertMetadata_DriverID(t *testing.T) {
	meta := entity.AlertMetadata{"driver_id": "D-42"}
	driverID, ok := meta.DriverID()
	assert.True(t, ok)
	assert.Equal(t, "D-42", driverID)

	empty := entity.AlertMetadata{}
	_, ok = empty.DriverID()
	assert.False(t, ok)
}

func TestAlertMetadata_DocumentValid(t *testing.T) {
	assert.True(t, entity.AlertMetadata{"document_valid": true}.DocumentValid())
	assert.False(t, entity.AlertMetadata{"document_valid": false}.DocumentValid())
	assert.False(t, entity.AlertMetadata{}.DocumentValid())
}

func TestAlert_NeedsImmediateAttention(t *testing.T) {
	testCases := []struct {
		name     string
		severity entity.AlertSeverity
		status   entity.AlertStatus
		expected bool
	}{
		{"critical open", entity.AlertSeverityCritical, entity.AlertStatusOpen, true},
		{"critical escalated", entity.AlertSeverityCritical, entity.AlertStatusEscalated, true},
		{"warning open", entity.AlertSeverityWarning, entity.AlertStatusOpen, false},
		{"critical resolved", entity.AlertSeverityCritical, entity.AlertStatusResolved, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alert, _ := entity.NewAlert(entity.SourceSafety, tc.severity, nil)
			alert.Status = tc.status

			assert.Equal(t, tc.expected, alert.NeedsImmediateAttention())
		})
	}
}

func TestAlert_ReplayStatus(t *testing.T) {
	// Arrange
	alert, _ := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)

	// Act
	alert.ApplyTransition(entity.AlertStateTransition{
		FromStatus: entity.AlertStatusOpen,
		ToStatus:   entity.AlertStatusEscalated,
		Timestamp:  time.Now(),
	})

	// Assert
	assert.Equal(t, entity.AlertStatusEscalated, alert.ReplayStatus())
}
