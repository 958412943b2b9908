package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusFinished RunStatus = "FINISHED"
	RunStatusFailed   RunStatus = "FAILED"
)

// TrainingRun records one pass of the training pipeline.
type TrainingRun struct {
	ID             uuid.UUID          `json:"id"`
	ExperimentName string             `json:"experiment_name"`
	Status         RunStatus          `json:"status"`
	Params         Hyperparameters    `json:"params"`
	Metrics        *EvaluationMetrics `json:"metrics,omitempty"`
	Error          string             `json:"error,omitempty"`
	StartedAt      time.Time          `json:"started_at"`
	FinishedAt     *time.Time         `json:"finished_at,omitempty"`

	// Set by the tracking backend once the run is logged remotely.
	TrackingRunID string `json:"tracking_run_id,omitempty"`
}

func NewTrainingRun(experiment string, params Hyperparameters) *TrainingRun {
	return &TrainingRun{
		ID:             uuid.New(),
		ExperimentName: experiment,
		Status:         RunStatusRunning,
		Params:         params,
		StartedAt:      time.Now(),
	}
}

// Finish marks the run finished or failed depending on err.
func (r *TrainingRun) Finish(err error) {
	now := time.Now()
	r.FinishedAt = &now
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = RunStatusFinished
}

func (r *TrainingRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
