package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wine-quality-service/internal/adapters/secondary/filesystem"
	"wine-quality-service/internal/config"
	"wine-quality-service/internal/core/domain"
	"wine-quality-service/internal/core/services"
	"wine-quality-service/internal/testutil"
)

const e2eSourceURL = "http://datasets.test/winequality-data.zip"

// setupE2ERouter wires the real pipeline services behind the router. Only the
// dataset download and the run store are mocked.
func setupE2ERouter(t *testing.T) (*testutil.MockTrainingRunRepo, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Artifacts: config.ArtifactsConfig{Root: t.TempDir()},
		Ingestion: config.IngestionConfig{
			SourceURL:    e2eSourceURL,
			DataFileName: "winequality-red.csv",
		},
		Transformation: config.TransformationConfig{TestSize: 0.2, RandomState: 42},
		MLflow:         config.MLflowConfig{ExperimentName: "wine-quality"},
	}
	configs := services.NewConfigurationManager(cfg, e2eSchema(), domain.Hyperparameters{Alpha: 0.2, L1Ratio: 0.1})

	fetcher := &testutil.MockFetcher{Payload: e2eArchive(t, 120)}
	fetcher.On("Fetch", mock.Anything, e2eSourceURL, mock.Anything).Return(nil)

	runRepo := new(testutil.MockTrainingRunRepo)
	runRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.TrainingRun")).Return(nil)

	store := filesystem.NewModelStore()
	predictor := services.NewPredictionPipeline(store, configs.ModelPath())
	pipeline := services.NewTrainingPipeline(configs, fetcher, store, nil, runRepo, predictor)

	h := New(pipeline, predictor, services.NewTrainingRunService(runRepo))
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	h.RegisterRoutes(&r.RouterGroup)
	h.RegisterAPIRoutes(r.Group("/api/v1"))
	return runRepo, r
}

func e2eSchema() domain.Schema {
	cols := make([]domain.Column, 0, domain.NumFeatures+1)
	for _, f := range domain.Features {
		cols = append(cols, domain.Column{Name: f.Column, DType: "float64"})
	}
	cols = append(cols, domain.Column{Name: "quality", DType: "int64"})
	return domain.Schema{Columns: cols, TargetColumn: "quality"}
}

func e2eArchive(t *testing.T, rows int) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(3))
	var csv strings.Builder
	csv.WriteString(strings.Join(append(domain.FeatureColumns(), "quality"), ",") + "\n")
	for i := 0; i < rows; i++ {
		values := make([]string, domain.NumFeatures)
		var alcohol float64
		for j := range values {
			v := 0.1 + r.Float64()*12
			alcohol = v
			values[j] = fmt.Sprintf("%.4f", v)
		}
		csv.WriteString(strings.Join(values, ",") + fmt.Sprintf(",%d\n", 3+int(alcohol/2.5)))
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("winequality-red.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte(csv.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Helper: assert JSON field exists and has expected type
// ---------------------------------------------------------------------------

func assertFieldString(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isStr := val.(string)
		assert.True(t, isStr, "field %q should be string, got %T", key, val)
	}
}

func assertFieldNumber(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isNum := val.(float64)
		assert.True(t, isNum, "field %q should be number, got %T", key, val)
	}
}

// assertRunResponseFields checks the training run contract of the JSON API.
func assertRunResponseFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "experiment_name")
	assertFieldString(t, resp, "status")
	assertFieldNumber(t, resp, "alpha")
	assertFieldNumber(t, resp, "l1_ratio")
	assertFieldString(t, resp, "started_at")
	assertFieldString(t, resp, "finished_at")
	assertFieldNumber(t, resp, "duration_ms")

	m, ok := resp["metrics"].(map[string]interface{})
	require.True(t, ok, "metrics should be object")
	assertFieldNumber(t, m, "rmse")
	assertFieldNumber(t, m, "mae")
	assertFieldNumber(t, m, "r2")
}

var predictionPattern = regexp.MustCompile(`<strong id="prediction">(-?\d+\.\d{2})</strong>`)

func TestE2E_TrainThenPredict(t *testing.T) {
	_, r := setupE2ERouter(t)

	// No model yet.
	w := postForm(r, "/predict", sampleForm())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotRegexp(t, predictionPattern, w.Body.String())
	assert.Contains(t, w.Body.String(), predictErrorMessage)

	w = get(r, "/train")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), trainSuccessMessage)

	w = postForm(r, "/predict", sampleForm())
	require.Equal(t, http.StatusOK, w.Code)
	match := predictionPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, match, 2, w.Body.String())
}

func TestE2E_RetrainChangesPredictions(t *testing.T) {
	_, r := setupE2ERouter(t)

	w := postForm(r, "/training", map[string][]string{"alpha": {"0.01"}, "l1_ratio": {"0.5"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = postForm(r, "/predict", sampleForm())
	require.Equal(t, http.StatusOK, w.Code)
	first := predictionPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, first, 2)

	// A very strong penalty shrinks every coefficient to zero, leaving the
	// intercept as the only signal.
	w = postForm(r, "/training", map[string][]string{"alpha": {"1000"}, "l1_ratio": {"1"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = postForm(r, "/predict", sampleForm())
	require.Equal(t, http.StatusOK, w.Code)
	second := predictionPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, second, 2)

	assert.NotEqual(t, first[1], second[1])
}

func TestE2E_TrainJSONContract(t *testing.T) {
	runRepo, r := setupE2ERouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/train", strings.NewReader(`{"alpha":0.1,"l1_ratio":0.2}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertRunResponseFields(t, resp)
	assert.Equal(t, "FINISHED", resp["status"])
	assert.Equal(t, 0.1, resp["alpha"])
	runRepo.AssertNumberOfCalls(t, "Save", 2)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/predict",
		strings.NewReader(`{"instances":[[7.4,0.7,0.0,1.9,0.076,11.0,34.0,0.9978,3.51,0.56,9.4]]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var pred map[string][]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pred))
	assert.Len(t, pred["predictions"], 1)
}
