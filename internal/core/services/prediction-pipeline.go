package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/metrics"
	"wine-quality-service/internal/ml"
)

// PredictionPipeline serves predictions from the persisted model. The model is
// loaded on first use and shared by all callers until Invalidate is called.
type PredictionPipeline struct {
	store     ports.ModelStore
	modelPath string

	mu    sync.RWMutex
	model *ml.ElasticNet
}

func NewPredictionPipeline(store ports.ModelStore, modelPath string) *PredictionPipeline {
	return &PredictionPipeline{store: store, modelPath: modelPath}
}

// Predict scores rows that each carry the 11 features in model order.
func (p *PredictionPipeline) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	for i, row := range rows {
		if len(row) != domain.NumFeatures {
			metrics.Predictions.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("row %d has %d values: %w", i, len(row), domain.ErrFeatureCount)
		}
	}

	model, err := p.loadModel()
	if err != nil {
		metrics.Predictions.WithLabelValues("error").Inc()
		return nil, err
	}

	result, err := model.Predict(rows)
	if err != nil {
		metrics.Predictions.WithLabelValues("error").Inc()
		return nil, err
	}
	for i, v := range result {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			metrics.Predictions.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("row %d: %w", i, domain.ErrNonFiniteScore)
		}
	}
	metrics.Predictions.WithLabelValues("ok").Inc()
	return result, nil
}

// Invalidate drops the cached model so the next prediction reloads it.
func (p *PredictionPipeline) Invalidate() {
	p.mu.Lock()
	p.model = nil
	p.mu.Unlock()
}

func (p *PredictionPipeline) loadModel() (*ml.ElasticNet, error) {
	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model != nil {
		return p.model, nil
	}

	model, err := p.store.Load(p.modelPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrModelNotTrained
		}
		return nil, err
	}
	metrics.ModelLoads.Inc()
	log.WithField("path", p.modelPath).Info("model loaded")
	p.model = model
	return model, nil
}
