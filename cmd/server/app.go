package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/adapters/secondary/filesystem"
	"wine-quality-service/internal/adapters/secondary/mlflow"
	"wine-quality-service/internal/adapters/secondary/postgres"
	"wine-quality-service/internal/adapters/secondary/remote"
	"wine-quality-service/internal/config"
	output "wine-quality-service/internal/core/ports/output"
	"wine-quality-service/internal/core/services"
)

// app holds the wired services shared by every command.
type app struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	pipeline  *services.TrainingPipeline
	predictor *services.PredictionPipeline
	runs      *services.TrainingRunService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	initLogger(cfg)

	schema, err := config.LoadSchema(cfg.Artifacts.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	params, err := config.LoadParams(cfg.Artifacts.ParamsFile)
	if err != nil {
		return nil, fmt.Errorf("load params: %w", err)
	}

	a := &app{cfg: cfg}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Run history (Optional - based on config)
	var runRepo output.TrainingRunRepository
	if cfg.Database.Enabled {
		pool, err := newPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		runRepo = postgres.NewTrainingRunRepository(pool)
		log.Info("training run store initialized")
	} else {
		log.Info("training run store disabled")
	}

	// Experiment tracking (Optional - based on config)
	var tracker output.ExperimentTracker
	if cfg.MLflow.Enabled {
		tracker = mlflow.NewMLflowClient(&cfg.MLflow)
		log.WithField("tracking_uri", cfg.MLflow.TrackingURI).Info("MLflow tracking enabled")
	} else {
		log.Info("MLflow tracking disabled")
	}

	fetcher := remote.NewClient(cfg.Ingestion.DownloadTimeout)
	store := filesystem.NewModelStore()
	configs := services.NewConfigurationManager(cfg, schema, params)

	a.predictor = services.NewPredictionPipeline(store, configs.ModelPath())
	a.pipeline = services.NewTrainingPipeline(configs, fetcher, store, tracker, runRepo, a.predictor)
	a.runs = services.NewTrainingRunService(runRepo)
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func newPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database connection established")
	return pool, nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
