package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/application/service"
	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
	"github.com/fleetops/alert-engine/internal/domain/valueobject"
)

// fakeAlertRepository is an in-memory stand-in for repository.AlertRepository.
type fakeAlertRepository struct {
	mu     sync.Mutex
	alerts map[string]*entity.Alert

	// onCompareAndSwap, if set, is invoked with the struct about to be
	// persisted on every successful CompareAndSwapStatus call, letting
	// tests inspect exactly what would have landed in the same write.
	onCompareAndSwap func(*entity.Alert)
	// forceConflictOnce, if true, makes the next CompareAndSwapStatus call
	// return repository.ErrConflict and then clears itself, simulating a
	// concurrent writer winning the race once.
	forceConflictOnce bool
}

func newFakeAlertRepository() *fakeAlertRepository {
	return &fakeAlertRepository{alerts: make(map[string]*entity.Alert)}
}

func (f *fakeAlertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *alert
	f.alerts[alert.ID] = &cp
	return nil
}

func (f *fakeAlertRepository) GetByID(ctx context.Context, alertID string) (*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *alert
	return &cp, nil
}

func (f *fakeAlertRepository) CompareAndSwapStatus(ctx context.Context, alertID string, expectedStatus entity.AlertStatus, transition entity.AlertStateTransition, updated *entity.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forceConflictOnce {
		f.forceConflictOnce = false
		return repository.ErrConflict
	}

	current, ok := f.alerts[alertID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Status != expectedStatus {
		return repository.ErrConflict
	}
	cp := *updated
	f.alerts[alertID] = &cp
	if f.onCompareAndSwap != nil {
		f.onCompareAndSwap(&cp)
	}
	return nil
}

func (f *fakeAlertRepository) List(ctx context.Context, filter valueobject.AlertFilter, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Alert], error) {
	return nil, nil
}

func (f *fakeAlertRepository) ListActive(ctx context.Context) ([]*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []*entity.Alert
	for _, a := range f.alerts {
		if !a.Status.IsTerminal() {
			cp := *a
			active = append(active, &cp)
		}
	}
	return active, nil
}

func (f *fakeAlertRepository) ListSimilar(ctx context.Context, driverID string, sourceType entity.SourceType, since time.Time, excludeAlertID string) ([]*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var similar []*entity.Alert
	for _, a := range f.alerts {
		if a.ID == excludeAlertID || a.SourceType != sourceType {
			continue
		}
		if id, ok := a.Metadata.DriverID(); !ok || id != driverID {
			continue
		}
		if a.Timestamp.Before(since) {
			continue
		}
		cp := *a
		similar = append(similar, &cp)
	}
	return similar, nil
}

func (f *fakeAlertRepository) Count(ctx context.Context) (int64, error) { return int64(len(f.alerts)), nil }

func (f *fakeAlertRepository) GetStatistics(ctx context.Context) (*repository.AlertStatistics, error) {
	return &repository.AlertStatistics{}, nil
}

// fakeRuleRepository is an in-memory stand-in for repository.RuleRepository.
type fakeRuleRepository struct {
	rules []*entity.Rule
}

func (f *fakeRuleRepository) Create(ctx context.Context, rule *entity.Rule) error { return nil }
func (f *fakeRuleRepository) GetByID(ctx context.Context, ruleID string) (*entity.Rule, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeRuleRepository) Update(ctx context.Context, rule *entity.Rule) error { return nil }
func (f *fakeRuleRepository) Delete(ctx context.Context, ruleID string) error     { return nil }
func (f *fakeRuleRepository) List(ctx context.Context, pagination valueobject.Pagination) (*valueobject.PaginatedResult[*entity.Rule], error) {
	return nil, nil
}
func (f *fakeRuleRepository) ListActiveForSource(ctx context.Context, sourceType entity.SourceType) ([]*entity.Rule, error) {
	var out []*entity.Rule
	for _, r := range f.rules {
		if r.SourceType == sourceType && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRuleRepository) ListActive(ctx context.Context) ([]*entity.Rule, error) {
	var out []*entity.Rule
	for _, r := range f.rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRuleRepository) ExistsByID(ctx context.Context, ruleID string) (bool, error) {
	return false, nil
}
func (f *fakeRuleRepository) Count(ctx context.Context) (int64, error) { return int64(len(f.rules)), nil }

func newTestRuleEngine(t *testing.T, alertRepo *fakeAlertRepository, rules []*entity.Rule) *service.RuleEngine {
	t.Helper()
	ruleRepo := &fakeRuleRepository{rules: rules}
	cache := service.NewRuleCache(ruleRepo, time.Minute)
	return service.NewRuleEngine(alertRepo, cache, nil, 0, nil, 0, zerolog.Nop())
}

func TestRuleEngine_CheckAndEscalate_ThresholdMet(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	rule, err := entity.NewRule("RULE-1", entity.SourceOverspeeding, "Repeat overspeeding", "", entity.RuleCondition{EscalateIfCount: 2, WindowMins: 60}, 1)
	require.NoError(t, err)
	engine := newTestRuleEngine(t, alertRepo, []*entity.Rule{rule})

	priorAlert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, entity.AlertMetadata{"driver_id": "D-1"})
	require.NoError(t, err)
	priorAlert.ID = "OSP-2026-00001"
	require.NoError(t, alertRepo.Create(context.Background(), priorAlert))

	newAlert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, entity.AlertMetadata{"driver_id": "D-1"})
	require.NoError(t, err)
	newAlert.ID = "OSP-2026-00002"
	require.NoError(t, alertRepo.Create(context.Background(), newAlert))

	// Act
	escalated, err := engine.CheckAndEscalate(context.Background(), newAlert)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, escalated)
	assert.Equal(t, entity.AlertStatusEscalated, escalated.Status)
	assert.Equal(t, entity.AlertSeverityCritical, escalated.Severity)
}

func TestRuleEngine_CheckAndEscalate_ThresholdNotMet(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	rule, err := entity.NewRule("RULE-1", entity.SourceOverspeeding, "Repeat overspeeding", "", entity.RuleCondition{EscalateIfCount: 5, WindowMins: 60}, 1)
	require.NoError(t, err)
	engine := newTestRuleEngine(t, alertRepo, []*entity.Rule{rule})

	alert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, entity.AlertMetadata{"driver_id": "D-1"})
	require.NoError(t, err)
	alert.ID = "OSP-2026-00001"
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	// Act
	escalated, err := engine.CheckAndEscalate(context.Background(), alert)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, escalated)
}

func TestRuleEngine_CheckAndEscalate_NoDriverID(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	engine := newTestRuleEngine(t, alertRepo, nil)

	alert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)
	require.NoError(t, err)
	alert.ID = "OSP-2026-00001"

	// Act
	escalated, err := engine.CheckAndEscalate(context.Background(), alert)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, escalated)
}

func TestRuleEngine_CheckAutoClose_DocumentValid(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	rule, err := entity.NewRule("RULE-2", entity.SourceDocumentExpiry, "Document renewed", "", entity.RuleCondition{AutoCloseIf: "document_valid"}, 1)
	require.NoError(t, err)
	engine := newTestRuleEngine(t, alertRepo, []*entity.Rule{rule})

	alert, err := entity.NewAlert(entity.SourceDocumentExpiry, entity.AlertSeverityWarning, entity.AlertMetadata{"document_valid": true})
	require.NoError(t, err)

	// Act
	shouldClose, reason, err := engine.CheckAutoClose(context.Background(), alert)

	// Assert
	require.NoError(t, err)
	assert.True(t, shouldClose)
	assert.Contains(t, reason, "Document renewed")
}

func TestRuleEngine_CheckAutoClose_ExpiresByTime(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	engine := newTestRuleEngine(t, alertRepo, nil)

	alert, err := entity.NewAlert(entity.SourceSafety, entity.AlertSeverityCritical, nil)
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	alert.ExpiresAt = &past

	// Act
	shouldClose, reason, err := engine.CheckAutoClose(context.Background(), alert)

	// Assert
	require.NoError(t, err)
	assert.True(t, shouldClose)
	assert.Contains(t, reason, "Time window expired")
}

func TestRuleEngine_CheckAutoClose_TerminalAlertSkipped(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	engine := newTestRuleEngine(t, alertRepo, nil)

	alert, err := entity.NewAlert(entity.SourceSafety, entity.AlertSeverityCritical, nil)
	require.NoError(t, err)
	alert.Status = entity.AlertStatusResolved

	// Act
	shouldClose, _, err := engine.CheckAutoClose(context.Background(), alert)

	// Assert
	require.NoError(t, err)
	assert.False(t, shouldClose)
}

func TestRuleEngine_ApplyAutoClose(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	engine := newTestRuleEngine(t, alertRepo, nil)

	alert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)
	require.NoError(t, err)
	alert.ID = "OSP-2026-00001"
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	// Act
	closed, err := engine.ApplyAutoClose(context.Background(), alert, "document_valid")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAutoClosed, closed.Status)
	require.NotNil(t, closed.AutoCloseReason)
	assert.Equal(t, "document_valid", *closed.AutoCloseReason)
}

func TestRuleEngine_EvaluateAllPending(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	rule, err := entity.NewRule("RULE-2", entity.SourceDocumentExpiry, "Document renewed", "", entity.RuleCondition{AutoCloseIf: "document_valid"}, 1)
	require.NoError(t, err)
	engine := newTestRuleEngine(t, alertRepo, []*entity.Rule{rule})
	ctx := context.Background()

	closable, err := entity.NewAlert(entity.SourceDocumentExpiry, entity.AlertSeverityWarning, entity.AlertMetadata{"document_valid": true})
	require.NoError(t, err)
	closable.ID = "DOC-2026-00001"
	require.NoError(t, alertRepo.Create(ctx, closable))

	stillOpen, err := entity.NewAlert(entity.SourceDocumentExpiry, entity.AlertSeverityWarning, entity.AlertMetadata{"document_valid": false})
	require.NoError(t, err)
	stillOpen.ID = "DOC-2026-00002"
	require.NoError(t, alertRepo.Create(ctx, stillOpen))

	// Act
	stats, err := engine.EvaluateAllPending(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChecked)
	assert.Equal(t, 1, stats.AutoClosed)
	assert.Empty(t, stats.Errors)

	updated, err := alertRepo.GetByID(ctx, "DOC-2026-00001")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAutoClosed, updated.Status)
}
