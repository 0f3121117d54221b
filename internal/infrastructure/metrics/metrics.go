// Package metrics provides Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Alert lifecycle metrics.
var (
	AlertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"severity", "source_type"},
	)

	AlertsEscalatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_escalated_total",
			Help: "Total number of alerts escalated",
		},
		[]string{"source_type"},
	)

	AlertsAutoClosedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_auto_closed_total",
			Help: "Total number of alerts auto-closed",
		},
		[]string{"source_type"},
	)

	AlertsResolvedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_resolved_total",
			Help: "Total number of alerts manually resolved",
		},
	)

	AlertsActiveGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alerts_active",
			Help: "Current number of alerts in OPEN or ESCALATED status",
		},
	)
)

// Scanner metrics.
var (
	ScannerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_runs_total",
			Help: "Total number of auto-close scanner runs",
		},
		[]string{"status"},
	)

	ScannerRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scanner_run_duration_seconds",
			Help:    "Auto-close scanner run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ScannerAlertsCheckedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_alerts_checked_total",
			Help: "Total number of alerts evaluated by the auto-close scanner",
		},
	)
)

// Event bus metrics.
var (
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published",
		},
		[]string{"event_type", "stream"},
	)

	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Total number of events consumed",
		},
		[]string{"event_type", "status"},
	)

	EventsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_failed_total",
			Help: "Total number of events that failed processing",
		},
		[]string{"event_type"},
	)

	EventProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_seconds",
			Help:    "Event processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event_type"},
	)
)

// Database metrics.
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Current number of active database connections",
		},
	)
)

// Cache metrics.
var (
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)
)

// Circuit breaker metrics.
var (
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"name"},
	)
)
