package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig
	Logger         LoggerConfig
	Artifacts      ArtifactsConfig
	Ingestion      IngestionConfig
	Transformation TransformationConfig
	MLflow         MLflowConfig
	Database       DatabaseConfig
	Scheduler      SchedulerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ArtifactsConfig struct {
	Root       string
	SchemaFile string
	ParamsFile string
}

type IngestionConfig struct {
	SourceURL       string
	DataFileName    string
	DownloadTimeout time.Duration
}

type TransformationConfig struct {
	TestSize    float64
	RandomState int64
}

type MLflowConfig struct {
	Enabled        bool
	TrackingURI    string
	Username       string
	Password       string
	ExperimentName string
	Timeout        time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type SchedulerConfig struct {
	// Cron spec with seconds; empty disables scheduled retraining.
	TrainingSchedule string
	TrainingTimeout  time.Duration
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded first when present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("ARTIFACTS_ROOT", "artifacts")
	v.SetDefault("SCHEMA_FILE", "config/schema.yaml")
	v.SetDefault("PARAMS_FILE", "config/params.yaml")
	v.SetDefault("SOURCE_URL", "https://github.com/krishnaik06/datasets/raw/refs/heads/main/winequality-data.zip")
	v.SetDefault("DATA_FILE_NAME", "winequality-red.csv")
	v.SetDefault("DOWNLOAD_TIMEOUT", "2m")
	v.SetDefault("TEST_SIZE", 0.25)
	v.SetDefault("RANDOM_STATE", 42)
	v.SetDefault("MLFLOW_ENABLED", false)
	v.SetDefault("MLFLOW_TRACKING_URI", "http://localhost:5000")
	v.SetDefault("MLFLOW_EXPERIMENT_NAME", "wine-quality")
	v.SetDefault("MLFLOW_TIMEOUT", "30s")
	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "wine_quality")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("TRAINING_SCHEDULE", "")
	v.SetDefault("TRAINING_TIMEOUT", "30m")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Artifacts: ArtifactsConfig{
			Root:       v.GetString("ARTIFACTS_ROOT"),
			SchemaFile: v.GetString("SCHEMA_FILE"),
			ParamsFile: v.GetString("PARAMS_FILE"),
		},
		Ingestion: IngestionConfig{
			SourceURL:       v.GetString("SOURCE_URL"),
			DataFileName:    v.GetString("DATA_FILE_NAME"),
			DownloadTimeout: durationOr(v.GetString("DOWNLOAD_TIMEOUT"), 2*time.Minute),
		},
		Transformation: TransformationConfig{
			TestSize:    v.GetFloat64("TEST_SIZE"),
			RandomState: v.GetInt64("RANDOM_STATE"),
		},
		MLflow: MLflowConfig{
			Enabled:        v.GetBool("MLFLOW_ENABLED"),
			TrackingURI:    v.GetString("MLFLOW_TRACKING_URI"),
			Username:       v.GetString("MLFLOW_TRACKING_USERNAME"),
			Password:       v.GetString("MLFLOW_TRACKING_PASSWORD"),
			ExperimentName: v.GetString("MLFLOW_EXPERIMENT_NAME"),
			Timeout:        durationOr(v.GetString("MLFLOW_TIMEOUT"), 30*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durationOr(v.GetString("DB_CONN_MAX_LIFETIME"), 30*time.Minute),
		},
		Scheduler: SchedulerConfig{
			TrainingSchedule: v.GetString("TRAINING_SCHEDULE"),
			TrainingTimeout:  durationOr(v.GetString("TRAINING_TIMEOUT"), 30*time.Minute),
		},
	}

	return cfg, nil
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
