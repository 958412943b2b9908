package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wine-quality-service/internal/config"
	"wine-quality-service/internal/core/domain"
)

const (
	testSourceURL = "http://datasets.test/winequality-data.zip"
	testDataFile  = "winequality-red.csv"
)

func wineSchema() domain.Schema {
	cols := make([]domain.Column, 0, domain.NumFeatures+1)
	for _, f := range domain.Features {
		cols = append(cols, domain.Column{Name: f.Column, DType: "float64"})
	}
	cols = append(cols, domain.Column{Name: "quality", DType: "int64"})
	return domain.Schema{Columns: cols, TargetColumn: "quality"}
}

// wineCSV renders n rows of synthetic wine data with integer quality scores
// loosely driven by alcohol content.
func wineCSV(n int) []byte {
	r := rand.New(rand.NewSource(7))
	var b strings.Builder
	b.WriteString(strings.Join(append(domain.FeatureColumns(), "quality"), ","))
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		values := make([]string, 0, domain.NumFeatures+1)
		var alcohol float64
		for j := 0; j < domain.NumFeatures; j++ {
			v := 0.5 + r.Float64()*10
			if j == domain.NumFeatures-1 {
				alcohol = v
			}
			values = append(values, fmt.Sprintf("%.3f", v))
		}
		quality := 3 + int(alcohol/2)
		values = append(values, fmt.Sprintf("%d", quality))
		b.WriteString(strings.Join(values, ","))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func zipArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestConfigs(t *testing.T) *ConfigurationManager {
	t.Helper()
	cfg := &config.Config{
		Artifacts: config.ArtifactsConfig{Root: t.TempDir()},
		Ingestion: config.IngestionConfig{
			SourceURL:    testSourceURL,
			DataFileName: testDataFile,
		},
		Transformation: config.TransformationConfig{TestSize: 0.25, RandomState: 42},
		MLflow:         config.MLflowConfig{ExperimentName: "wine-quality-test"},
	}
	return NewConfigurationManager(cfg, wineSchema(), domain.Hyperparameters{Alpha: 0.2, L1Ratio: 0.1})
}
