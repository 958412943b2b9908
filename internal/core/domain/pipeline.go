package domain

import "math"

// Column is one schema entry: a dataset column and its expected dtype.
type Column struct {
	Name  string
	DType string
}

// Schema is the ordered column contract of the raw dataset.
type Schema struct {
	Columns      []Column
	TargetColumn string
}

// Hyperparameters of the ElasticNet regressor.
type Hyperparameters struct {
	Alpha   float64 `json:"alpha"`
	L1Ratio float64 `json:"l1_ratio"`
}

func (p Hyperparameters) Validate() error {
	if math.IsNaN(p.Alpha) || math.IsInf(p.Alpha, 0) || math.IsNaN(p.L1Ratio) {
		return ErrInvalidHyperparameter
	}
	if p.Alpha < 0 || p.L1Ratio < 0 || p.L1Ratio > 1 {
		return ErrInvalidHyperparameter
	}
	return nil
}

// AsMap flattens the parameters for experiment tracking.
func (p Hyperparameters) AsMap() map[string]float64 {
	return map[string]float64{
		"alpha":    p.Alpha,
		"l1_ratio": p.L1Ratio,
	}
}

type DataIngestionConfig struct {
	RootDir       string
	SourceURL     string
	LocalDataFile string
	UnzipDir      string
}

type DataValidationConfig struct {
	RootDir      string
	StatusFile   string
	UnzipDataDir string
	Schema       Schema
}

type DataTransformationConfig struct {
	RootDir     string
	DataPath    string
	TestSize    float64
	RandomState int64
}

type ModelTrainerConfig struct {
	RootDir       string
	TrainDataPath string
	TestDataPath  string
	ModelName     string
	Params        Hyperparameters
	TargetColumn  string
}

type ModelEvaluationConfig struct {
	RootDir        string
	TestDataPath   string
	ModelPath      string
	Params         Hyperparameters
	MetricFilePath string
	TargetColumn   string
	ExperimentName string
}

// EvaluationMetrics are the regression scores logged for a run.
type EvaluationMetrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

func (m EvaluationMetrics) AsMap() map[string]float64 {
	return map[string]float64{
		"rmse": m.RMSE,
		"mae":  m.MAE,
		"r2":   m.R2,
	}
}
