package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/metrics"
)

const (
	StageDataIngestion      = "Data Ingestion stage"
	StageDataValidation     = "Data Validation stage"
	StageDataTransformation = "Data Transformation stage"
	StageModelTrainer       = "Model Trainer stage"
	StageModelEvaluation    = "Model Evaluation stage"
)

type modelCache interface {
	Invalidate()
}

// TrainingPipeline runs ingestion, validation, transformation, training and
// evaluation in order. Only one run may be active at a time.
type TrainingPipeline struct {
	configs *ConfigurationManager
	fetcher ports.Fetcher
	store   ports.ModelStore
	tracker ports.ExperimentTracker
	runRepo ports.TrainingRunRepository
	cache   modelCache

	mu sync.Mutex
}

// NewTrainingPipeline wires the pipeline. tracker, runRepo and cache are optional.
func NewTrainingPipeline(
	configs *ConfigurationManager,
	fetcher ports.Fetcher,
	store ports.ModelStore,
	tracker ports.ExperimentTracker,
	runRepo ports.TrainingRunRepository,
	cache modelCache,
) *TrainingPipeline {
	return &TrainingPipeline{
		configs: configs,
		fetcher: fetcher,
		store:   store,
		tracker: tracker,
		runRepo: runRepo,
		cache:   cache,
	}
}

func (p *TrainingPipeline) DefaultParams() domain.Hyperparameters {
	return p.configs.Params()
}

// Run executes every stage with params and reports the real outcome. The
// returned run is non-nil whenever the pipeline started.
func (p *TrainingPipeline) Run(ctx context.Context, params domain.Hyperparameters) (*domain.TrainingRun, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !p.mu.TryLock() {
		return nil, domain.ErrTrainingInProgress
	}
	defer p.mu.Unlock()

	configs := p.configs.WithParams(params)
	run := domain.NewTrainingRun(configs.experiment, params)
	p.record(ctx, run)

	err := p.runStages(ctx, configs, run)
	run.Finish(err)
	p.record(ctx, run)

	metrics.TrainingRuns.WithLabelValues(string(run.Status)).Inc()
	metrics.TrainingDuration.Observe(run.Duration().Seconds())

	entry := log.WithFields(log.Fields{
		"run_id":   run.ID,
		"alpha":    params.Alpha,
		"l1_ratio": params.L1Ratio,
		"duration": run.Duration().String(),
	})
	if err != nil {
		entry.WithError(err).Error("training pipeline failed")
		return run, err
	}
	entry.Info("training pipeline completed")
	return run, nil
}

// InitiateModelEvaluation re-scores the persisted model without retraining.
// The run records the hyper-parameters the model was trained with.
func (p *TrainingPipeline) InitiateModelEvaluation(ctx context.Context) (*domain.TrainingRun, error) {
	if !p.mu.TryLock() {
		return nil, domain.ErrTrainingInProgress
	}
	defer p.mu.Unlock()

	model, err := p.store.Load(p.configs.ModelPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrModelNotTrained
		}
		return nil, fmt.Errorf("load model: %w", err)
	}

	run := domain.NewTrainingRun(p.configs.experiment, domain.Hyperparameters{
		Alpha:   model.Alpha,
		L1Ratio: model.L1Ratio,
	})
	err = stage(StageModelEvaluation, func() error {
		return p.evaluate(ctx, p.configs, run)
	})
	run.Finish(err)
	p.record(ctx, run)
	return run, err
}

func (p *TrainingPipeline) runStages(ctx context.Context, configs *ConfigurationManager, run *domain.TrainingRun) error {
	if err := stage(StageDataIngestion, func() error {
		cfg, err := configs.GetDataIngestionConfig()
		if err != nil {
			return err
		}
		ingestion := NewDataIngestion(cfg, p.fetcher)
		if err := ingestion.DownloadFile(ctx); err != nil {
			return err
		}
		return ingestion.ExtractZipFile()
	}); err != nil {
		return err
	}

	if err := stage(StageDataValidation, func() error {
		cfg, err := configs.GetDataValidationConfig()
		if err != nil {
			return err
		}
		ok, err := NewDataValidation(cfg).ValidateAllColumns()
		if err != nil {
			metrics.ValidationStatus.Set(0)
			return err
		}
		if !ok {
			metrics.ValidationStatus.Set(0)
			return domain.ErrValidationFailed
		}
		metrics.ValidationStatus.Set(1)
		return nil
	}); err != nil {
		return err
	}

	if err := stage(StageDataTransformation, func() error {
		cfg, err := configs.GetDataTransformationConfig()
		if err != nil {
			return err
		}
		return NewDataTransformation(cfg).TrainTestSplit()
	}); err != nil {
		return err
	}

	if err := stage(StageModelTrainer, func() error {
		cfg, err := configs.GetModelTrainerConfig()
		if err != nil {
			return err
		}
		_, err = NewModelTrainer(cfg, p.store).Train()
		return err
	}); err != nil {
		return err
	}
	// The artifact on disk is now the new model, even if evaluation fails.
	if p.cache != nil {
		p.cache.Invalidate()
	}

	return stage(StageModelEvaluation, func() error {
		return p.evaluate(ctx, configs, run)
	})
}

func (p *TrainingPipeline) evaluate(ctx context.Context, configs *ConfigurationManager, run *domain.TrainingRun) error {
	cfg, err := configs.GetModelEvaluationConfig()
	if err != nil {
		return err
	}
	scores, err := NewModelEvaluation(cfg, p.store, p.tracker).LogIntoTracker(ctx, run)
	if err != nil {
		return err
	}
	for name, v := range scores.AsMap() {
		metrics.ModelScore.WithLabelValues(name).Set(v)
	}
	return nil
}

// record persists the run when a run store is configured. Store failures
// never fail the pipeline.
func (p *TrainingPipeline) record(ctx context.Context, run *domain.TrainingRun) {
	if p.runRepo == nil {
		return
	}
	if err := p.runRepo.Save(ctx, run); err != nil {
		log.WithError(err).WithField("run_id", run.ID).Warn("save training run failed")
	}
}

func stage(name string, fn func() error) error {
	log.Infof(">>>>>> stage %s started <<<<<<", name)
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Infof(">>>>>> stage %s completed <<<<<<", name)
	return nil
}
