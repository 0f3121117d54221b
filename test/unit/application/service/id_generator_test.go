package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/alert-engine/internal/application/service"
	"github.com/fleetops/alert-engine/internal/domain/entity"
)

// fakeCounterRepository is an in-memory stand-in for repository.CounterRepository.
type fakeCounterRepository struct {
	mu       sync.Mutex
	sequence map[string]int64
}

func newFakeCounterRepository() *fakeCounterRepository {
	return &fakeCounterRepository{sequence: make(map[string]int64)}
}

func (f *fakeCounterRepository) Increment(ctx context.Context, counterID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sequence[counterID]++
	return f.sequence[counterID], nil
}

func TestIDGeneratorService_Generate(t *testing.T) {
	// Arrange
	repo := newFakeCounterRepository()
	gen := service.NewIDGeneratorService(repo)
	year := time.Now().UTC().Year()

	// Act
	id, err := gen.Generate(context.Background(), entity.SourceOverspeeding)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OSP-%d-00001", year), id)
}

func TestIDGeneratorService_Generate_SequenceIncrementsPerSourceType(t *testing.T) {
	// Arrange
	repo := newFakeCounterRepository()
	gen := service.NewIDGeneratorService(repo)
	year := time.Now().UTC().Year()
	ctx := context.Background()

	// Act
	first, err := gen.Generate(ctx, entity.SourceSafety)
	require.NoError(t, err)
	second, err := gen.Generate(ctx, entity.SourceSafety)
	require.NoError(t, err)
	other, err := gen.Generate(ctx, entity.SourceCompliance)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, fmt.Sprintf("SAF-%d-00001", year), first)
	assert.Equal(t, fmt.Sprintf("SAF-%d-00002", year), second)
	assert.Equal(t, fmt.Sprintf("CMP-%d-00001", year), other)
}

func TestIDGeneratorService_Generate_InvalidSourceType(t *testing.T) {
	// Arrange
	gen := service.NewIDGeneratorService(newFakeCounterRepository())

	// Act
	id, err := gen.Generate(context.Background(), entity.SourceType("BOGUS"))

	// Assert
	assert.Empty(t, id)
	assert.ErrorIs(t, err, entity.ErrAlertInvalidSourceType)
}

func TestIDGeneratorService_Generate_WidensPastFiveDigits(t *testing.T) {
	// Arrange
	repo := newFakeCounterRepository()
	year := time.Now().UTC().Year()
	counterID := entity.CounterID(entity.SourceOverspeeding.Prefix(), year)
	repo.sequence[counterID] = 99999
	gen := service.NewIDGeneratorService(repo)

	// Act
	id, err := gen.Generate(context.Background(), entity.SourceOverspeeding)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OSP-%d-100000", year), id)
}
