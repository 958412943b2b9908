package services

import (
	"context"

	"github.com/google/uuid"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

type TrainingRunService struct {
	runRepo ports.TrainingRunRepository
}

// NewTrainingRunService accepts a nil repository; every call then reports
// that no run store is configured.
func NewTrainingRunService(runRepo ports.TrainingRunRepository) *TrainingRunService {
	return &TrainingRunService{runRepo: runRepo}
}

func (s *TrainingRunService) ListRuns(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	if s.runRepo == nil {
		return nil, 0, domain.ErrRunStoreNotAvailable
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.runRepo.List(ctx, filter)
}

func (s *TrainingRunService) GetRun(ctx context.Context, id string) (*domain.TrainingRun, error) {
	if s.runRepo == nil {
		return nil, domain.ErrRunStoreNotAvailable
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrRunNotFound
	}
	return s.runRepo.GetByID(ctx, runID)
}
