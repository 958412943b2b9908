package ports

import (
	"context"
	"io"

	"wine-quality-service/internal/core/domain"
)

// ExperimentTracker logs a finished run's parameters and metrics to an
// external tracking backend and returns the backend's run identifier.
type ExperimentTracker interface {
	LogRun(ctx context.Context, run *domain.TrainingRun) (string, error)
}

// Fetcher downloads a remote resource into w and returns the bytes written.
type Fetcher interface {
	Fetch(ctx context.Context, url string, w io.Writer) (int64, error)
}
