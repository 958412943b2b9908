package testutil

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/ml"
)

// MockTrainingRunRepo is a mock of TrainingRunRepository.
type MockTrainingRunRepo struct {
	mock.Mock
}

func (m *MockTrainingRunRepo) Save(ctx context.Context, run *domain.TrainingRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockTrainingRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingRun), args.Error(1)
}

func (m *MockTrainingRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.TrainingRun), args.Int(1), args.Error(2)
}

// MockModelStore is a mock of ModelStore.
type MockModelStore struct {
	mock.Mock
}

func (m *MockModelStore) Save(path string, model *ml.ElasticNet) error {
	args := m.Called(path, model)
	return args.Error(0)
}

func (m *MockModelStore) Load(path string) (*ml.ElasticNet, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ml.ElasticNet), args.Error(1)
}

// MockExperimentTracker is a mock of ExperimentTracker.
type MockExperimentTracker struct {
	mock.Mock
}

func (m *MockExperimentTracker) LogRun(ctx context.Context, run *domain.TrainingRun) (string, error) {
	args := m.Called(ctx, run)
	return args.String(0), args.Error(1)
}

// MockFetcher is a mock of Fetcher. When Payload is set, Fetch copies it to
// the writer before returning the configured error.
type MockFetcher struct {
	mock.Mock
	Payload []byte
}

func (m *MockFetcher) Fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	args := m.Called(ctx, url, w)
	var n int
	if len(m.Payload) > 0 {
		var err error
		if n, err = w.Write(m.Payload); err != nil {
			return int64(n), err
		}
	}
	return int64(n), args.Error(0)
}
