package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/application/service"
	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

// fakeCacheRepository is an in-memory stand-in for repository.CacheRepository.
// It implements Set, Get and Delete; the embedded interface is nil, so any
// other method panics if called.
type fakeCacheRepository struct {
	repository.CacheRepository
	deleted []string
}

func newFakeCacheRepository() *fakeCacheRepository {
	return &fakeCacheRepository{}
}

func (f *fakeCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (f *fakeCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	return repository.ErrNotFound
}

func (f *fakeCacheRepository) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

var _ repository.CacheRepository = (*fakeCacheRepository)(nil)

func newTestAlertService(alertRepo *fakeAlertRepository, cacheRepo *fakeCacheRepository) *service.AlertService {
	return service.NewAlertService(alertRepo, cacheRepo, nil, nil, nil, zerolog.Nop())
}

func TestAlertService_Resolve_SetsResolvedFieldsInSameWrite(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	cacheRepo := newFakeCacheRepository()
	svc := newTestAlertService(alertRepo, cacheRepo)

	alert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)
	require.NoError(t, err)
	alert.ID = "OSP-2026-00001"
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	var writtenWithResolution bool
	alertRepo.onCompareAndSwap = func(updated *entity.Alert) {
		writtenWithResolution = updated.Status == entity.AlertStatusResolved &&
			updated.ResolvedBy != nil && *updated.ResolvedBy == "U-1" &&
			updated.ResolutionNotes != nil && *updated.ResolutionNotes == "fixed the tire"
	}

	// Act
	resolved, err := svc.Resolve(context.Background(), alert.ID, "U-1", "fixed the tire")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, entity.AlertStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "U-1", *resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolutionNotes)
	assert.Equal(t, "fixed the tire", *resolved.ResolutionNotes)
	assert.NotNil(t, resolved.ResolvedAt)
	assert.True(t, writtenWithResolution, "resolved_by/resolution_notes must be present on the struct passed to the same CompareAndSwapStatus write")

	persisted, err := alertRepo.GetByID(context.Background(), alert.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted.ResolvedBy)
	assert.Equal(t, "U-1", *persisted.ResolvedBy)
	require.NotNil(t, persisted.ResolutionNotes)
	assert.Equal(t, "fixed the tire", *persisted.ResolutionNotes)
}

func TestAlertService_UpdateStatus_RetriesOnceOnConflict(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	cacheRepo := newFakeCacheRepository()
	svc := newTestAlertService(alertRepo, cacheRepo)

	alert, err := entity.NewAlert(entity.SourceOverspeeding, entity.AlertSeverityWarning, nil)
	require.NoError(t, err)
	alert.ID = "OSP-2026-00002"
	require.NoError(t, alertRepo.Create(context.Background(), alert))

	// Simulate a concurrent writer winning the race on the first attempt.
	alertRepo.forceConflictOnce = true

	// Act
	updated, err := svc.UpdateStatus(context.Background(), alert.ID, entity.AlertStatusEscalated, "repeat incidents", "system", nil)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, entity.AlertStatusEscalated, updated.Status)
	assert.False(t, alertRepo.forceConflictOnce, "the forced conflict must have been consumed by the retry")
}

func TestAlertService_UpdateStatus_NotFound(t *testing.T) {
	// Arrange
	alertRepo := newFakeAlertRepository()
	cacheRepo := newFakeCacheRepository()
	svc := newTestAlertService(alertRepo, cacheRepo)

	// Act
	_, err := svc.UpdateStatus(context.Background(), "OSP-2026-99999", entity.AlertStatusEscalated, "n/a", "system", nil)

	// Assert
	assert.ErrorIs(t, err, service.ErrAlertNotFound)
}
