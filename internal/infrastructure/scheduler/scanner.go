// Package scheduler runs the periodic auto-close scan as a cron job.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/fleetops/alert-engine/internal/application/service"
	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/infrastructure/logger"
	"github.com/fleetops/alert-engine/internal/infrastructure/metrics"
)

// Scanner periodically evaluates every active alert's auto-close
// conditions, recording each run as a BackgroundJob for audit. Per-alert
// fault isolation (timeout + circuit breaker) lives in RuleEngine, since
// it's the alert, not the pass, that needs bounding.
type Scanner struct {
	cron       *cron.Cron
	ruleEngine *service.RuleEngine
	jobService *service.JobService
	log        zerolog.Logger
}

// NewScanner constructs a Scanner that runs on cronExpression (standard
// five-field cron syntax, e.g. "*/5 * * * *"). Overlapping runs are
// skipped and a panicking job is recovered rather than crashing the process.
func NewScanner(cronExpression string, ruleEngine *service.RuleEngine, jobService *service.JobService, log zerolog.Logger) (*Scanner, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	s := &Scanner{
		cron:       c,
		ruleEngine: ruleEngine,
		jobService: jobService,
		log:        log.With().Str("component", "scanner").Logger(),
	}

	if _, err := c.AddFunc(cronExpression, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins the cron schedule. Non-blocking.
func (s *Scanner) Start() {
	s.log.Info().Msg("starting auto-close scanner")
	s.cron.Start()
}

// Stop halts the schedule and waits for any in-flight run to finish, or
// until ctx is done, whichever comes first.
func (s *Scanner) Stop(ctx context.Context) {
	s.log.Info().Msg("stopping auto-close scanner")
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

// runOnce executes a single scan pass, recording the outcome as a job.
func (s *Scanner) runOnce() {
	ctx := context.Background()
	start := time.Now()

	job, err := s.jobService.Start(ctx, "auto_close_scan")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to record scan job start")
		return
	}

	ctx = logger.WithJobID(ctx, job.JobID)
	runLog := logger.WithContext(ctx).With().Str("component", "scanner").Logger()

	stats, runErr := s.ruleEngine.EvaluateAllPending(ctx)

	metrics.ScannerRunDuration.Observe(time.Since(start).Seconds())

	if runErr != nil {
		metrics.ScannerRunsTotal.WithLabelValues("failed").Inc()
		runLog.Error().Err(runErr).Msg("auto-close scan failed")
		_ = s.jobService.Finish(ctx, job, entity.BackgroundJobFailed, 0, 0, 0, []string{runErr.Error()})
		return
	}

	metrics.ScannerRunsTotal.WithLabelValues("completed").Inc()
	metrics.ScannerAlertsCheckedTotal.Add(float64(stats.TotalChecked))

	runLog.Info().
		Int("checked", stats.TotalChecked).
		Int("auto_closed", stats.AutoClosed).
		Int("errors", len(stats.Errors)).
		Msg("auto-close scan complete")

	if err := s.jobService.Finish(ctx, job, entity.BackgroundJobCompleted, stats.TotalChecked, stats.AutoClosed, 0, stats.Errors); err != nil {
		runLog.Error().Err(err).Msg("failed to record scan job completion")
	}
}
