package services

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/dataset"
	"wine-quality-service/internal/ml"
)

type ModelTrainer struct {
	config domain.ModelTrainerConfig
	store  ports.ModelStore
}

func NewModelTrainer(config domain.ModelTrainerConfig, store ports.ModelStore) *ModelTrainer {
	return &ModelTrainer{config: config, store: store}
}

// Train fits ElasticNet on the training split and persists the artifact.
func (t *ModelTrainer) Train() (*ml.ElasticNet, error) {
	X, y, err := loadXY(t.config.TrainDataPath, t.config.TargetColumn)
	if err != nil {
		return nil, fmt.Errorf("load training data: %w", err)
	}

	model := ml.NewElasticNet(t.config.Params.Alpha, t.config.Params.L1Ratio)
	model.FeatureNames = domain.FeatureColumns()
	if err := model.Fit(X, y); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	path := filepath.Join(t.config.RootDir, t.config.ModelName)
	if err := t.store.Save(path, model); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"alpha":    model.Alpha,
		"l1_ratio": model.L1Ratio,
		"n_iter":   model.NIter,
		"rows":     len(X),
		"path":     path,
	}).Info("model trained")
	return model, nil
}

// loadXY reads the feature columns in model order and the target column.
func loadXY(path, target string) ([][]float64, []float64, error) {
	frame, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, nil, err
	}
	X, err := frame.Matrix(domain.FeatureColumns())
	if err != nil {
		return nil, nil, err
	}
	y, err := frame.Floats(target)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}
