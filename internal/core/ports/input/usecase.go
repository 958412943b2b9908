package input

import (
	"context"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

// Trainer runs the training pipeline end to end.
type Trainer interface {
	Run(ctx context.Context, params domain.Hyperparameters) (*domain.TrainingRun, error)
	DefaultParams() domain.Hyperparameters
}

// Predictor scores feature rows with the current model.
type Predictor interface {
	Predict(ctx context.Context, rows [][]float64) ([]float64, error)
}

// RunHistory lists recorded training runs.
type RunHistory interface {
	ListRuns(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error)
	GetRun(ctx context.Context, id string) (*domain.TrainingRun, error)
}
