package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetops/alert-engine/internal/domain/entity"
	"github.com/fleetops/alert-engine/internal/domain/repository"
)

// IDGeneratorService mints human-readable alert IDs of the form
// "{PREFIX}-{YEAR}-{SEQUENCE}" (e.g. "OSP-2026-00042") using an atomically
// incremented, year-scoped counter per source type.
type IDGeneratorService struct {
	counterRepo repository.CounterRepository
}

// NewIDGeneratorService constructs an IDGeneratorService.
func NewIDGeneratorService(counterRepo repository.CounterRepository) *IDGeneratorService {
	return &IDGeneratorService{counterRepo: counterRepo}
}

// Generate returns the next alert ID for sourceType, scoped to the current
// UTC year. The sequence is zero-padded to 5 digits; values beyond 99999
// widen naturally since "%05d" never truncates.
func (g *IDGeneratorService) Generate(ctx context.Context, sourceType entity.SourceType) (string, error) {
	if !sourceType.IsValid() {
		return "", entity.ErrAlertInvalidSourceType
	}

	prefix := sourceType.Prefix()
	year := time.Now().UTC().Year()
	counterID := entity.CounterID(prefix, year)

	sequence, err := g.counterRepo.Increment(ctx, counterID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, year, sequence), nil
}
