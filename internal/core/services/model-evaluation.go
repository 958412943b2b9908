package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/ml"
)

type ModelEvaluation struct {
	config  domain.ModelEvaluationConfig
	store   ports.ModelStore
	tracker ports.ExperimentTracker
}

// NewModelEvaluation builds the evaluation stage. tracker may be nil, in which
// case metrics are only written to the metrics file.
func NewModelEvaluation(config domain.ModelEvaluationConfig, store ports.ModelStore, tracker ports.ExperimentTracker) *ModelEvaluation {
	return &ModelEvaluation{config: config, store: store, tracker: tracker}
}

// LogIntoTracker scores the persisted model on the held-out split, saves the
// metrics file and logs params and metrics for run.
func (e *ModelEvaluation) LogIntoTracker(ctx context.Context, run *domain.TrainingRun) (domain.EvaluationMetrics, error) {
	model, err := e.store.Load(e.config.ModelPath)
	if err != nil {
		return domain.EvaluationMetrics{}, err
	}

	X, y, err := loadXY(e.config.TestDataPath, e.config.TargetColumn)
	if err != nil {
		return domain.EvaluationMetrics{}, fmt.Errorf("load test data: %w", err)
	}

	pred, err := model.Predict(X)
	if err != nil {
		return domain.EvaluationMetrics{}, fmt.Errorf("score test data: %w", err)
	}

	metrics := domain.EvaluationMetrics{
		RMSE: ml.RMSE(y, pred),
		MAE:  ml.MAE(y, pred),
		R2:   ml.R2(y, pred),
	}
	if err := saveJSON(e.config.MetricFilePath, metrics); err != nil {
		return domain.EvaluationMetrics{}, err
	}

	run.Metrics = &metrics
	log.WithFields(log.Fields{
		"run_id": run.ID,
		"rmse":   metrics.RMSE,
		"mae":    metrics.MAE,
		"r2":     metrics.R2,
	}).Info("model evaluated")

	if e.tracker == nil {
		log.Debug("experiment tracking disabled, skipping remote logging")
		return metrics, nil
	}

	trackingID, err := e.tracker.LogRun(ctx, run)
	if err != nil {
		return metrics, fmt.Errorf("log run: %w", err)
	}
	run.TrackingRunID = trackingID
	return metrics, nil
}

func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
