package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wine-quality-service/internal/adapters/secondary/filesystem"
	"wine-quality-service/internal/core/domain"
	"wine-quality-service/internal/testutil"
)

type cacheSpy struct {
	invalidated int
}

func (c *cacheSpy) Invalidate() { c.invalidated++ }

func newTestPipeline(t *testing.T, csv []byte) (*TrainingPipeline, *ConfigurationManager, *testutil.MockTrainingRunRepo, *cacheSpy) {
	t.Helper()
	cm := newTestConfigs(t)

	fetcher := &testutil.MockFetcher{Payload: zipArchive(t, map[string][]byte{testDataFile: csv})}
	fetcher.On("Fetch", mock.Anything, testSourceURL, mock.Anything).Return(nil)

	repo := new(testutil.MockTrainingRunRepo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.TrainingRun")).Return(nil)

	cache := &cacheSpy{}
	p := NewTrainingPipeline(cm, fetcher, filesystem.NewModelStore(), nil, repo, cache)
	return p, cm, repo, cache
}

func TestTrainingPipeline_Run(t *testing.T) {
	p, cm, repo, cache := newTestPipeline(t, wineCSV(80))

	params := domain.Hyperparameters{Alpha: 0.5, L1Ratio: 0.3}
	run, err := p.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatusFinished, run.Status)
	assert.Equal(t, params, run.Params)
	assert.NotNil(t, run.FinishedAt)
	require.NotNil(t, run.Metrics)
	assert.Equal(t, 1, cache.invalidated)
	repo.AssertNumberOfCalls(t, "Save", 2)

	model, err := filesystem.NewModelStore().Load(cm.ModelPath())
	require.NoError(t, err)
	assert.Equal(t, 0.5, model.Alpha)
	assert.Equal(t, 0.3, model.L1Ratio)

	cfg, err := cm.GetDataValidationConfig()
	require.NoError(t, err)
	status, err := os.ReadFile(cfg.StatusFile)
	require.NoError(t, err)
	assert.Equal(t, "Validation status: True", string(status))
}

func TestTrainingPipeline_Run_ValidationFailure(t *testing.T) {
	lines := strings.Split(string(wineCSV(20)), "\n")
	fields := strings.Split(lines[1], ",")
	fields[0] = "n/a"
	lines[1] = strings.Join(fields, ",")
	csv := []byte(strings.Join(lines, "\n"))

	p, _, _, cache := newTestPipeline(t, csv)

	run, err := p.Run(context.Background(), p.DefaultParams())
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, StageDataValidation)
	assert.Zero(t, cache.invalidated)
}

func TestTrainingPipeline_Run_DownloadFailure(t *testing.T) {
	cm := newTestConfigs(t)
	fetcher := new(testutil.MockFetcher)
	fetcher.On("Fetch", mock.Anything, testSourceURL, mock.Anything).Return(domain.ErrDownloadFailed)

	p := NewTrainingPipeline(cm, fetcher, filesystem.NewModelStore(), nil, nil, nil)
	run, err := p.Run(context.Background(), p.DefaultParams())
	assert.ErrorIs(t, err, domain.ErrDownloadFailed)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.Nil(t, run.Metrics)
}

func TestTrainingPipeline_Run_InvalidParams(t *testing.T) {
	p, _, repo, _ := newTestPipeline(t, wineCSV(20))

	run, err := p.Run(context.Background(), domain.Hyperparameters{Alpha: -1, L1Ratio: 0.5})
	assert.ErrorIs(t, err, domain.ErrInvalidHyperparameter)
	assert.Nil(t, run)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTrainingPipeline_Run_RejectsConcurrentRun(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, wineCSV(20))

	p.mu.Lock()
	run, err := p.Run(context.Background(), p.DefaultParams())
	p.mu.Unlock()

	assert.ErrorIs(t, err, domain.ErrTrainingInProgress)
	assert.Nil(t, run)
}

func TestTrainingPipeline_Run_Repeatable(t *testing.T) {
	p, _, _, cache := newTestPipeline(t, wineCSV(40))

	first, err := p.Run(context.Background(), p.DefaultParams())
	require.NoError(t, err)
	second, err := p.Run(context.Background(), p.DefaultParams())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, 2, cache.invalidated)
}

func TestTrainingPipeline_InitiateModelEvaluation(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, wineCSV(40))

	_, err := p.Run(context.Background(), p.DefaultParams())
	require.NoError(t, err)

	run, err := p.InitiateModelEvaluation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFinished, run.Status)
	assert.NotNil(t, run.Metrics)
}

func TestTrainingPipeline_Run_EvaluationFailureServesNewModel(t *testing.T) {
	p, cm, _, _ := newTestPipeline(t, wineCSV(80))
	store := filesystem.NewModelStore()
	predictor := NewPredictionPipeline(store, cm.ModelPath())
	p.cache = predictor

	_, err := p.Run(context.Background(), domain.Hyperparameters{Alpha: 0.001, L1Ratio: 0.5})
	require.NoError(t, err)
	before, err := predictor.Predict(context.Background(), [][]float64{sampleRow()})
	require.NoError(t, err)

	tracker := new(testutil.MockExperimentTracker)
	tracker.On("LogRun", mock.Anything, mock.AnythingOfType("*domain.TrainingRun")).Return("", domain.ErrTrackingFailed)
	p.tracker = tracker

	run, err := p.Run(context.Background(), domain.Hyperparameters{Alpha: 50, L1Ratio: 0.5})
	assert.ErrorIs(t, err, domain.ErrTrackingFailed)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStatusFailed, run.Status)

	model, err := store.Load(cm.ModelPath())
	require.NoError(t, err)
	assert.Equal(t, 50.0, model.Alpha)
	onDisk, err := model.Predict([][]float64{sampleRow()})
	require.NoError(t, err)

	served, err := predictor.Predict(context.Background(), [][]float64{sampleRow()})
	require.NoError(t, err)
	assert.Equal(t, onDisk, served)
	assert.NotEqual(t, before, served)
	tracker.AssertExpectations(t)
}

func TestTrainingPipeline_Run_FailureBeforeTrainingKeepsCache(t *testing.T) {
	p, _, _, cache := newTestPipeline(t, wineCSV(1))

	_, err := p.Run(context.Background(), p.DefaultParams())
	assert.ErrorIs(t, err, domain.ErrInsufficientSample)
	assert.Zero(t, cache.invalidated)
}

func TestTrainingPipeline_InitiateModelEvaluation_UsesModelParams(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, wineCSV(40))

	trained := domain.Hyperparameters{Alpha: 0.9, L1Ratio: 0.9}
	require.NotEqual(t, trained, p.DefaultParams())
	_, err := p.Run(context.Background(), trained)
	require.NoError(t, err)

	run, err := p.InitiateModelEvaluation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trained, run.Params)
}

func TestTrainingPipeline_InitiateModelEvaluation_NotTrained(t *testing.T) {
	p, _, repo, _ := newTestPipeline(t, wineCSV(40))

	run, err := p.InitiateModelEvaluation(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelNotTrained)
	assert.Nil(t, run)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
