package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"wine-quality-service/internal/core/domain"
)

type schemaFile struct {
	Columns      yaml.Node `yaml:"COLUMNS"`
	TargetColumn struct {
		Name string `yaml:"name"`
	} `yaml:"TARGET_COLUMN"`
}

// LoadSchema reads the dataset schema. Column order in the file is kept.
func LoadSchema(path string) (domain.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Schema{}, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(raw)
}

func ParseSchema(raw []byte) (domain.Schema, error) {
	var f schemaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.Schema{}, fmt.Errorf("parse schema: %w", err)
	}
	if f.Columns.Kind != yaml.MappingNode || len(f.Columns.Content) == 0 {
		return domain.Schema{}, domain.ErrInvalidSchema
	}

	schema := domain.Schema{TargetColumn: f.TargetColumn.Name}
	for i := 0; i+1 < len(f.Columns.Content); i += 2 {
		key, val := f.Columns.Content[i], f.Columns.Content[i+1]
		schema.Columns = append(schema.Columns, domain.Column{Name: key.Value, DType: val.Value})
	}
	if schema.TargetColumn == "" {
		return domain.Schema{}, domain.ErrMissingTarget
	}
	return schema, nil
}

// LoadParams reads the ElasticNet section of the params file. A missing file
// yields the defaults.
func LoadParams(path string) (domain.Hyperparameters, error) {
	v := viper.New()
	v.SetDefault("elasticnet.alpha", 0.2)
	v.SetDefault("elasticnet.l1_ratio", 0.1)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return domain.Hyperparameters{}, fmt.Errorf("read params: %w", err)
		}
	}

	params := domain.Hyperparameters{
		Alpha:   v.GetFloat64("elasticnet.alpha"),
		L1Ratio: v.GetFloat64("elasticnet.l1_ratio"),
	}
	if err := params.Validate(); err != nil {
		return domain.Hyperparameters{}, err
	}
	return params, nil
}
