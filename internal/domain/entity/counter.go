package entity

import "strconv"

// Counter is an atomically-incremented sequence scoped to a prefix and
// year, used to mint human-readable alert IDs ("OSP-2026-00042").
type Counter struct {
	// ID is the counter's key, formatted "alert_{prefix}_{year}".
	ID       string `json:"id" db:"id"`
	Sequence int64  `json:"sequence" db:"sequence"`
}

// CounterID builds the counter key for a prefix and year, e.g.
// CounterID("OSP", 2026) -> "alert_OSP_2026".
func CounterID(prefix string, year int) string {
	return "alert_" + prefix + "_" + strconv.Itoa(year)
}
