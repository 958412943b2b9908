package services

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	"wine-quality-service/internal/dataset"
)

type DataValidation struct {
	config domain.DataValidationConfig
}

func NewDataValidation(config domain.DataValidationConfig) *DataValidation {
	return &DataValidation{config: config}
}

// ValidateAllColumns checks every schema column's dtype against the dataset.
// The result is true only when all columns match; the status file is written
// once after the full scan. A schema column absent from the dataset is an error.
func (v *DataValidation) ValidateAllColumns() (bool, error) {
	if len(v.config.Schema.Columns) == 0 {
		return false, domain.ErrInvalidSchema
	}

	frame, err := dataset.ReadCSV(v.config.UnzipDataDir)
	if err != nil {
		return false, err
	}

	status := true
	for _, col := range v.config.Schema.Columns {
		dtype, err := frame.DType(col.Name)
		if err != nil {
			return false, err
		}
		if dtype != col.DType {
			log.WithFields(log.Fields{
				"column":   col.Name,
				"expected": col.DType,
				"actual":   dtype,
			}).Warn("column dtype mismatch")
			status = false
		}
	}

	if err := writeStatus(v.config.StatusFile, status); err != nil {
		return false, err
	}
	return status, nil
}

func writeStatus(path string, status bool) error {
	text := "False"
	if status {
		text = "True"
	}
	if err := os.WriteFile(path, []byte("Validation status: "+text), 0o644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	return nil
}
