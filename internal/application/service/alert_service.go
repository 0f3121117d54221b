// Package service implements the application layer services following hexagonal architecture.
// Services orchestrate domain logic and coordinate between repositories and other infrastructure.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	appevent "github.com/fleetops/alert-engine/internal/application/event"
	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

// Alert service errors define domain-specific error types for the alert service.
var (
	ErrAlertNotFound = errors.New("alert not found")
)

const statsCacheKey = "stats:alerts"

// AlertService handles alert business logic and orchestrates operations between
// the alert repository, cache, rule engine and event bus. It implements the
// application use cases for alert management: creation with real-time
// escalation, retrieval, manual resolution, and statistics.
type AlertService struct {
	alertRepo    repository.AlertRepository
	cacheRepo    repository.CacheRepository
	stateMachine *StateMachine
	idGenerator  *IDGeneratorService
	ruleEngine   *RuleEngine
	producer     *appevent.AlertProducer
	log          zerolog.Logger
}

// NewAlertService creates a new AlertService with the required dependencies.
func NewAlertService(
	alertRepo repository.AlertRepository,
	cacheRepo repository.CacheRepository,
	idGenerator *IDGeneratorService,
	ruleEngine *RuleEngine,
	producer *appevent.AlertProducer,
	log zerolog.Logger,
) *AlertService {
	return &AlertService{
		alertRepo:    alertRepo,
		cacheRepo:    cacheRepo,
		stateMachine: NewStateMachine(),
		idGenerator:  idGenerator,
		ruleEngine:   ruleEngine,
		producer:     producer,
		log:          log.With().Str("component", "alert_service").Logger(),
	}
}

// CreateAlertInput represents the input parameters for creating a new alert.
type CreateAlertInput struct {
	SourceType entity.SourceType
	Severity   entity.AlertSeverity // optional; defaults to SourceType.DefaultSeverity()
	Metadata   entity.AlertMetadata
}

// Create builds a new OPEN alert, mints its human-readable ID, persists it,
// and then runs the real-time escalation check best-effort: a failure in
// rule evaluation is logged and swallowed, never surfaced to the caller,
// since alert creation must never fail because of a downstream rule error.
func (s *AlertService) Create(ctx context.Context, input CreateAlertInput) (*entity.Alert, error) {
	alert, err := entity.NewAlert(input.SourceType, input.Severity, input.Metadata)
	if err != nil {
		return nil, err
	}

	id, err := s.idGenerator.Generate(ctx, input.SourceType)
	if err != nil {
		return nil, err
	}
	alert.ID = id

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, err
	}

	_ = s.cacheRepo.Delete(ctx, statsCacheKey)
	if s.producer != nil {
		s.producer.PublishCreated(ctx, alert)
	}

	if s.ruleEngine != nil {
		if escalated, evalErr := s.ruleEngine.CheckAndEscalate(ctx, alert); evalErr != nil {
			s.log.Error().Err(evalErr).Str("alert_id", alert.ID).Msg("escalation check failed")
		} else if escalated != nil {
			alert = escalated
			if s.producer != nil {
				s.producer.PublishTransition(ctx, alert, alert.StateHistory[len(alert.StateHistory)-1])
			}
		}
	}

	return alert, nil
}

// GetByID retrieves a single alert by its alert_id.
// Returns ErrAlertNotFound if no alert exists with the given ID.
func (s *AlertService) GetByID(ctx context.Context, alertID string) (*entity.Alert, error) {
	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}

// ListInput represents the input parameters for listing alerts with filters.
type ListInput struct {
	Filter     valueobject.AlertFilter
	Pagination valueobject.Pagination
}

// List retrieves alerts matching the specified filters with pagination.
func (s *AlertService) List(ctx context.Context, input ListInput) (*valueobject.PaginatedResult[*entity.Alert], error) {
	return s.alertRepo.List(ctx, input.Filter, input.Pagination)
}

// maxTransitionAttempts bounds the optimistic-concurrency retry in
// transitionAndPersist: one initial attempt plus one retry on ErrConflict.
const maxTransitionAttempts = 2

// transitionAndPersist validates a state transition, applies an optional
// mutation to the updated alert before persisting it, and writes the result
// with CompareAndSwapStatus so every field the transition touches — status,
// derived timestamps, and whatever mutate sets — lands in one atomic
// update. On ErrConflict (the alert changed underneath the caller between
// the read and the write) it re-reads and retries once.
func (s *AlertService) transitionAndPersist(ctx context.Context, alertID string, newStatus entity.AlertStatus, reason, triggeredBy string, ruleTriggered *string, mutate func(*entity.Alert)) (*entity.Alert, error) {
	var lastErr error

	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		alert, err := s.alertRepo.GetByID(ctx, alertID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrAlertNotFound
			}
			return nil, err
		}

		transition, err := s.stateMachine.Transition(alert.Status, newStatus, reason, triggeredBy, ruleTriggered)
		if err != nil {
			return nil, err
		}

		updated := *alert
		updated.ApplyTransition(transition)
		if mutate != nil {
			mutate(&updated)
		}

		err = s.alertRepo.CompareAndSwapStatus(ctx, alertID, alert.Status, transition, &updated)
		if err == nil {
			_ = s.cacheRepo.Delete(ctx, statsCacheKey)
			if s.producer != nil {
				s.producer.PublishTransition(ctx, &updated, transition)
			}
			return &updated, nil
		}

		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// UpdateStatus applies a validated state transition to an alert, retrying
// the optimistic-concurrency compare-and-swap once on ErrConflict (the
// alert changed underneath the caller between the status read and write).
func (s *AlertService) UpdateStatus(ctx context.Context, alertID string, newStatus entity.AlertStatus, reason, triggeredBy string, ruleTriggered *string) (*entity.Alert, error) {
	return s.transitionAndPersist(ctx, alertID, newStatus, reason, triggeredBy, ruleTriggered, nil)
}

// Resolve marks an alert as resolved by the specified user, attaching
// resolution notes in the same compare-and-swap write that sets
// status=RESOLVED, so the two can never land inconsistently. Mirrors the
// original's "Alert resolved by user {id}" reason text when the caller
// doesn't supply one.
func (s *AlertService) Resolve(ctx context.Context, alertID, resolvedBy, notes string) (*entity.Alert, error) {
	reason := notes
	if reason == "" {
		reason = "Alert resolved by user " + resolvedBy
	}

	return s.transitionAndPersist(ctx, alertID, entity.AlertStatusResolved, reason, resolvedBy, nil, func(a *entity.Alert) {
		a.ResolvedBy = &resolvedBy
		if notes != "" {
			a.ResolutionNotes = &notes
		}
	})
}

// GetStateHistory returns an alert's full transition audit log.
func (s *AlertService) GetStateHistory(ctx context.Context, alertID string) ([]entity.AlertStateTransition, error) {
	alert, err := s.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	return alert.StateHistory, nil
}

// GetStatistics retrieves aggregated alert statistics for dashboards.
// Implements a cache-aside pattern with a 1 minute TTL.
func (s *AlertService) GetStatistics(ctx context.Context) (*repository.AlertStatistics, error) {
	var stats repository.AlertStatistics
	if err := s.cacheRepo.Get(ctx, statsCacheKey, &stats); err == nil {
		return &stats, nil
	}

	dbStats, err := s.alertRepo.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cacheRepo.Set(ctx, statsCacheKey, dbStats, time.Minute)

	return dbStats, nil
}

// GetActiveAlerts retrieves all alerts in a non-terminal status.
func (s *AlertService) GetActiveAlerts(ctx context.Context) ([]*entity.Alert, error) {
	return s.alertRepo.ListActive(ctx)
}
