package domain

import "errors"

// ============================================================================
// Pipeline Errors
// ============================================================================

// Ingestion errors
var (
	ErrDownloadFailed    = errors.New("dataset download failed")
	ErrUnsafeArchivePath = errors.New("archive entry escapes extraction directory")
)

// Validation errors
var (
	ErrColumnNotFound     = errors.New("column not found in dataset")
	ErrValidationFailed   = errors.New("dataset does not match schema")
	ErrEmptyDataset       = errors.New("dataset has no rows")
	ErrInvalidSchema      = errors.New("schema must declare at least one column")
	ErrMissingTarget      = errors.New("schema target column is required")
	ErrInvalidSplitRatio  = errors.New("test size must be between 0 and 1")
	ErrInsufficientSample = errors.New("not enough rows to split into train and test sets")
)

// Training errors
var (
	ErrInvalidHyperparameter = errors.New("alpha must be >= 0 and l1_ratio must be between 0 and 1")
	ErrTrainingInProgress    = errors.New("a training run is already in progress")
)

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrModelNotTrained = errors.New("model artifact not found, train the model first")
	ErrFeatureCount    = errors.New("feature vector must contain exactly 11 values")
	ErrInvalidFeature  = errors.New("feature value must be numeric")
	ErrNonFiniteScore  = errors.New("prediction is not a finite number, check the input range")
)

// ============================================================================
// Tracking Errors
// ============================================================================

var (
	ErrRunStoreNotAvailable = errors.New("training run store is not configured")
	ErrRunNotFound          = errors.New("training run not found")
	ErrTrackingFailed       = errors.New("experiment tracking request failed")
)
