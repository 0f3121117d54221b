package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appevent "github.com/fleetops/alert-engine/internal/application/event"
	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
	"github.com/fleetops/alert-engine/internal/infrastructure/circuitbreaker"
)

// DefaultAlertTimeout bounds how long EvaluateAllPending spends on any
// single alert's auto-close check/apply before moving on.
const DefaultAlertTimeout = 5 * time.Second

// RuleEngine evaluates escalation and auto-close conditions against
// alerts, using the per-source RuleCache to avoid a store round trip on
// every alert creation.
type RuleEngine struct {
	alertRepo         repository.AlertRepository
	ruleCache         *RuleCache
	stateMachine      *StateMachine
	producer          *appevent.AlertProducer
	defaultWindowMins int
	breaker           *circuitbreaker.CircuitBreaker
	alertTimeout      time.Duration
	log               zerolog.Logger
}

// NewRuleEngine constructs a RuleEngine. defaultWindowMins overrides
// entity.DefaultEscalationWindow as the lookback window for rules that
// don't specify one; non-positive falls back to that package default.
// breakerRegistry supplies the "alert-store" circuit breaker guarding each
// alert's store calls during a scan pass; nil disables it (tests).
// alertTimeout bounds each alert's check/apply during EvaluateAllPending;
// non-positive falls back to DefaultAlertTimeout.
func NewRuleEngine(alertRepo repository.AlertRepository, ruleCache *RuleCache, producer *appevent.AlertProducer, defaultWindowMins int, breakerRegistry *circuitbreaker.Registry, alertTimeout time.Duration, log zerolog.Logger) *RuleEngine {
	if alertTimeout <= 0 {
		alertTimeout = DefaultAlertTimeout
	}

	e := &RuleEngine{
		alertRepo:         alertRepo,
		ruleCache:         ruleCache,
		stateMachine:      NewStateMachine(),
		producer:          producer,
		defaultWindowMins: defaultWindowMins,
		alertTimeout:      alertTimeout,
		log:               log.With().Str("component", "rule_engine").Logger(),
	}

	if breakerRegistry != nil {
		e.breaker = breakerRegistry.Get("alert-store")
	}

	return e
}

// effectiveWindow returns the rule's own window if set, else the engine's
// configured default, else entity.DefaultEscalationWindow.
func (e *RuleEngine) effectiveWindow(rule *entity.Rule) int {
	if rule.Conditions.WindowMins > 0 {
		return rule.Conditions.WindowMins
	}
	if e.defaultWindowMins > 0 {
		return e.defaultWindowMins
	}
	return entity.DefaultEscalationWindow
}

// CheckAndEscalate evaluates the active rules for alert's source type and,
// if the count of similar alerts for the same driver within a rule's
// window meets that rule's threshold, escalates alert. The first matching
// rule wins and no further rules are evaluated. Returns the updated alert
// (nil if no escalation occurred).
func (e *RuleEngine) CheckAndEscalate(ctx context.Context, alert *entity.Alert) (*entity.Alert, error) {
	if alert.Status == entity.AlertStatusEscalated {
		return nil, nil
	}

	driverID, ok := alert.Metadata.DriverID()
	if !ok {
		e.log.Warn().Str("alert_id", alert.ID).Msg("alert has no driver_id, cannot check escalation")
		return nil, nil
	}

	rules, err := e.ruleCache.ForSource(ctx, alert.SourceType)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if !rule.IsActive || !rule.Conditions.HasEscalation() {
			continue
		}

		windowMins := e.effectiveWindow(rule)
		since := time.Now().UTC().Add(-time.Duration(windowMins) * time.Minute)

		similar, err := e.alertRepo.ListSimilar(ctx, driverID, alert.SourceType, since, alert.ID)
		if err != nil {
			e.log.Error().Err(err).Str("rule_id", rule.ID).Msg("error evaluating rule, continuing")
			continue
		}

		totalCount := len(similar) + 1
		if totalCount < rule.Conditions.EscalateIfCount {
			continue
		}

		reason := fmt.Sprintf("%d %s incidents detected within %d minutes (threshold: %d)",
			totalCount, alert.SourceType, windowMins, rule.Conditions.EscalateIfCount)

		ruleID := rule.ID
		transition, err := e.stateMachine.Transition(alert.Status, entity.AlertStatusEscalated, reason, "system", &ruleID)
		if err != nil {
			return nil, err
		}

		updated := *alert
		updated.ApplyTransition(transition)

		if err := e.alertRepo.CompareAndSwapStatus(ctx, alert.ID, alert.Status, transition, &updated); err != nil {
			return nil, err
		}

		return &updated, nil
	}

	return nil, nil
}

// CheckAutoClose evaluates the active rules' auto-close predicates and the
// alert's expiration, returning (true, reason) if the alert should close.
// Rule-based checks take precedence over time-based expiry.
func (e *RuleEngine) CheckAutoClose(ctx context.Context, alert *entity.Alert) (bool, string, error) {
	if alert.Status.IsTerminal() {
		return false, "", nil
	}

	rules, err := e.ruleCache.ForSource(ctx, alert.SourceType)
	if err != nil {
		return false, "", err
	}

	for _, rule := range rules {
		if !rule.IsActive || !rule.Conditions.HasAutoClose() {
			continue
		}

		switch rule.Conditions.AutoCloseIf {
		case "document_valid":
			if alert.Metadata.DocumentValid() {
				return true, fmt.Sprintf("Document renewed (rule: %s)", rule.ID), nil
			}
		}
	}

	now := time.Now().UTC()
	if alert.IsExpired(now) {
		return true, fmt.Sprintf("Time window expired (expired at: %s)", alert.ExpiresAt.Format(time.RFC3339)), nil
	}

	return false, "", nil
}

// ApplyAutoClose transitions alert to AUTO_CLOSED with the given reason.
func (e *RuleEngine) ApplyAutoClose(ctx context.Context, alert *entity.Alert, reason string) (*entity.Alert, error) {
	transition, err := e.stateMachine.Transition(alert.Status, entity.AlertStatusAutoClosed, reason, "system", nil)
	if err != nil {
		return nil, err
	}

	updated := *alert
	updated.ApplyTransition(transition)

	if err := e.alertRepo.CompareAndSwapStatus(ctx, alert.ID, alert.Status, transition, &updated); err != nil {
		return nil, err
	}

	if e.producer != nil {
		e.producer.PublishTransition(ctx, &updated, transition)
	}

	return &updated, nil
}

// EvaluationStats summarizes one EvaluateAllPending pass.
type EvaluationStats struct {
	TotalChecked int
	AutoClosed   int
	Errors       []string
}

// EvaluateAllPending scans every OPEN/ESCALATED alert, applies
// CheckAutoClose, and auto-closes any alert that qualifies. A failure on
// one alert is recorded in Errors and evaluation continues with the rest.
func (e *RuleEngine) EvaluateAllPending(ctx context.Context) (*EvaluationStats, error) {
	alerts, err := e.alertRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	stats := &EvaluationStats{TotalChecked: len(alerts)}

	for _, alert := range alerts {
		if err := e.evaluateOne(ctx, alert, stats); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("alert %s: %v", alert.ID, err))
		}
	}

	return stats, nil
}

// evaluateOne runs one alert's auto-close check/apply under a per-alert
// deadline and, if configured, the "alert-store" circuit breaker, so one
// slow or failing alert cannot stall or fail the whole pass.
func (e *RuleEngine) evaluateOne(ctx context.Context, alert *entity.Alert, stats *EvaluationStats) error {
	ctx, cancel := context.WithTimeout(ctx, e.alertTimeout)
	defer cancel()

	run := func(ctx context.Context) error {
		shouldClose, reason, err := e.CheckAutoClose(ctx, alert)
		if err != nil {
			return err
		}
		if !shouldClose {
			return nil
		}
		if _, err := e.ApplyAutoClose(ctx, alert, reason); err != nil {
			return err
		}
		stats.AutoClosed++
		return nil
	}

	if e.breaker != nil {
		return e.breaker.Execute(ctx, run)
	}
	return run(ctx)
}
