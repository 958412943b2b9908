package ports

import (
	"context"

	"github.com/google/uuid"

	"wine-quality-service/internal/core/domain"
	"wine-quality-service/internal/ml"
)

type RunListFilter struct {
	Status string
	Limit  int
	Offset int
}

// TrainingRunRepository persists the history of pipeline runs.
type TrainingRunRepository interface {
	Save(ctx context.Context, run *domain.TrainingRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingRun, error)
	List(ctx context.Context, filter RunListFilter) ([]*domain.TrainingRun, int, error)
}

// ModelStore reads and writes the serialized model artifact.
type ModelStore interface {
	Save(path string, model *ml.ElasticNet) error
	Load(path string) (*ml.ElasticNet, error)
}
