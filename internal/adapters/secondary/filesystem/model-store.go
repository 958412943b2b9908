package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ports "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/ml"
)

type modelStore struct{}

// NewModelStore returns a ModelStore that keeps models as JSON files.
func NewModelStore() ports.ModelStore {
	return modelStore{}
}

// Save writes the model atomically so readers never see a partial artifact.
func (modelStore) Save(path string, model *ml.ElasticNet) error {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".model-*")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("store model: %w", err)
	}
	return nil
}

func (modelStore) Load(path string) (*ml.ElasticNet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var model ml.ElasticNet
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if model.Coef == nil {
		return nil, fmt.Errorf("decode model %s: %w", path, ml.ErrNotFitted)
	}
	return &model, nil
}
