package services

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	"wine-quality-service/internal/dataset"
)

type DataTransformation struct {
	config domain.DataTransformationConfig
}

func NewDataTransformation(config domain.DataTransformationConfig) *DataTransformation {
	return &DataTransformation{config: config}
}

// TrainTestSplit writes train.csv and test.csv next to each other in the stage directory.
func (t *DataTransformation) TrainTestSplit() error {
	frame, err := dataset.ReadCSV(t.config.DataPath)
	if err != nil {
		return err
	}

	train, test, err := dataset.TrainTestSplit(frame, t.config.TestSize, t.config.RandomState)
	if err != nil {
		return err
	}

	if err := train.WriteCSV(filepath.Join(t.config.RootDir, "train.csv")); err != nil {
		return err
	}
	if err := test.WriteCSV(filepath.Join(t.config.RootDir, "test.csv")); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"train_rows": train.Len(),
		"test_rows":  test.Len(),
	}).Info("split data into training and test sets")
	return nil
}
