package services

import (
	"fmt"
	"os"
	"path/filepath"

	"wine-quality-service/internal/config"
	"wine-quality-service/internal/core/domain"
)

// ConfigurationManager assembles the per-stage configuration objects from the
// service config, the dataset schema and the model parameters.
type ConfigurationManager struct {
	root           string
	ingestion      config.IngestionConfig
	transformation config.TransformationConfig
	experiment     string
	schema         domain.Schema
	params         domain.Hyperparameters
}

func NewConfigurationManager(cfg *config.Config, schema domain.Schema, params domain.Hyperparameters) *ConfigurationManager {
	return &ConfigurationManager{
		root:           cfg.Artifacts.Root,
		ingestion:      cfg.Ingestion,
		transformation: cfg.Transformation,
		experiment:     cfg.MLflow.ExperimentName,
		schema:         schema,
		params:         params,
	}
}

// WithParams returns a copy of the manager using params for training and evaluation.
func (m *ConfigurationManager) WithParams(params domain.Hyperparameters) *ConfigurationManager {
	cp := *m
	cp.params = params
	return &cp
}

func (m *ConfigurationManager) Params() domain.Hyperparameters { return m.params }

func (m *ConfigurationManager) Schema() domain.Schema { return m.schema }

func (m *ConfigurationManager) stageDir(stage string) (string, error) {
	dir := filepath.Join(m.root, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s directory: %w", stage, err)
	}
	return dir, nil
}

func (m *ConfigurationManager) dataFile() string {
	return filepath.Join(m.root, "data_ingestion", m.ingestion.DataFileName)
}

func (m *ConfigurationManager) GetDataIngestionConfig() (domain.DataIngestionConfig, error) {
	dir, err := m.stageDir("data_ingestion")
	if err != nil {
		return domain.DataIngestionConfig{}, err
	}
	return domain.DataIngestionConfig{
		RootDir:       dir,
		SourceURL:     m.ingestion.SourceURL,
		LocalDataFile: filepath.Join(dir, "data.zip"),
		UnzipDir:      dir,
	}, nil
}

func (m *ConfigurationManager) GetDataValidationConfig() (domain.DataValidationConfig, error) {
	dir, err := m.stageDir("data_validation")
	if err != nil {
		return domain.DataValidationConfig{}, err
	}
	return domain.DataValidationConfig{
		RootDir:      dir,
		StatusFile:   filepath.Join(dir, "status.txt"),
		UnzipDataDir: m.dataFile(),
		Schema:       m.schema,
	}, nil
}

func (m *ConfigurationManager) GetDataTransformationConfig() (domain.DataTransformationConfig, error) {
	dir, err := m.stageDir("data_transformation")
	if err != nil {
		return domain.DataTransformationConfig{}, err
	}
	return domain.DataTransformationConfig{
		RootDir:     dir,
		DataPath:    m.dataFile(),
		TestSize:    m.transformation.TestSize,
		RandomState: m.transformation.RandomState,
	}, nil
}

func (m *ConfigurationManager) GetModelTrainerConfig() (domain.ModelTrainerConfig, error) {
	dir, err := m.stageDir("model_trainer")
	if err != nil {
		return domain.ModelTrainerConfig{}, err
	}
	transformDir := filepath.Join(m.root, "data_transformation")
	return domain.ModelTrainerConfig{
		RootDir:       dir,
		TrainDataPath: filepath.Join(transformDir, "train.csv"),
		TestDataPath:  filepath.Join(transformDir, "test.csv"),
		ModelName:     "model.json",
		Params:        m.params,
		TargetColumn:  m.schema.TargetColumn,
	}, nil
}

func (m *ConfigurationManager) GetModelEvaluationConfig() (domain.ModelEvaluationConfig, error) {
	dir, err := m.stageDir("model_evaluation")
	if err != nil {
		return domain.ModelEvaluationConfig{}, err
	}
	return domain.ModelEvaluationConfig{
		RootDir:        dir,
		TestDataPath:   filepath.Join(m.root, "data_transformation", "test.csv"),
		ModelPath:      m.ModelPath(),
		Params:         m.params,
		MetricFilePath: filepath.Join(dir, "metrics.json"),
		TargetColumn:   m.schema.TargetColumn,
		ExperimentName: m.experiment,
	}, nil
}

// ModelPath is where training writes and prediction reads the model artifact.
func (m *ConfigurationManager) ModelPath() string {
	return filepath.Join(m.root, "model_trainer", "model.json")
}
