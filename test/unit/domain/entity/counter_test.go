package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

func TestCounterID(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		year     int
		expected string
	}{
		{"overspeeding prefix", "OSP", 2026, "alert_OSP_2026"},
		{"document expiry prefix", "DOC", 2025, "alert_DOC_2025"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			id := entity.CounterID(tc.prefix, tc.year)

			// Assert
			assert.Equal(t, tc.expected, id)
		})
	}
}
