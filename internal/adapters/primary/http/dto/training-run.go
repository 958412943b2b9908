package dto

import (
	"time"

	"github.com/google/uuid"

	"wine-quality-service/internal/core/domain"
)

// RunFailedMessage replaces the stored failure detail in responses.
const RunFailedMessage = "training run failed, see server logs for details"

type TrainRequest struct {
	Alpha   *float64 `json:"alpha"`
	L1Ratio *float64 `json:"l1_ratio"`
}

type PredictRequest struct {
	Instances [][]float64 `json:"instances" binding:"required,min=1"`
}

type PredictResponse struct {
	Predictions []float64 `json:"predictions"`
}

type MetricsDTO struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

type TrainingRunResponse struct {
	ID             uuid.UUID   `json:"id"`
	ExperimentName string      `json:"experiment_name"`
	Status         string      `json:"status"`
	Alpha          float64     `json:"alpha"`
	L1Ratio        float64     `json:"l1_ratio"`
	Metrics        *MetricsDTO `json:"metrics,omitempty"`
	Error          string      `json:"error,omitempty"`
	TrackingRunID  string      `json:"tracking_run_id,omitempty"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     *time.Time  `json:"finished_at,omitempty"`
	DurationMs     int64       `json:"duration_ms"`
}

type ListTrainingRunsResponse struct {
	Items      []TrainingRunResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

func ToTrainingRunResponse(run *domain.TrainingRun) TrainingRunResponse {
	resp := TrainingRunResponse{
		ID:             run.ID,
		ExperimentName: run.ExperimentName,
		Status:         string(run.Status),
		Alpha:          run.Params.Alpha,
		L1Ratio:        run.Params.L1Ratio,
		TrackingRunID:  run.TrackingRunID,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		DurationMs:     run.Duration().Milliseconds(),
	}
	if run.Error != "" {
		resp.Error = RunFailedMessage
	}
	if run.Metrics != nil {
		resp.Metrics = &MetricsDTO{
			RMSE: run.Metrics.RMSE,
			MAE:  run.Metrics.MAE,
			R2:   run.Metrics.R2,
		}
	}
	return resp
}
