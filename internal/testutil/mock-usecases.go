package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

// MockTrainer is a mock of input.Trainer.
type MockTrainer struct {
	mock.Mock
}

func (m *MockTrainer) Run(ctx context.Context, params domain.Hyperparameters) (*domain.TrainingRun, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingRun), args.Error(1)
}

func (m *MockTrainer) DefaultParams() domain.Hyperparameters {
	args := m.Called()
	return args.Get(0).(domain.Hyperparameters)
}

// MockPredictor is a mock of input.Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockRunHistory is a mock of input.RunHistory.
type MockRunHistory struct {
	mock.Mock
}

func (m *MockRunHistory) ListRuns(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.TrainingRun), args.Int(1), args.Error(2)
}

func (m *MockRunHistory) GetRun(ctx context.Context, id string) (*domain.TrainingRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingRun), args.Error(1)
}
