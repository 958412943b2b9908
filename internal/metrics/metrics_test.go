package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesCollectors(t *testing.T) {
	TrainingRuns.WithLabelValues("FINISHED").Inc()
	ModelScore.WithLabelValues("rmse").Set(0.61)
	Predictions.WithLabelValues("ok").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `winequality_training_runs_total{status="FINISHED"}`)
	assert.Contains(t, text, `winequality_model_evaluation_score{metric="rmse"} 0.61`)
	assert.Contains(t, text, `winequality_prediction_requests_total{outcome="ok"}`)
	assert.Contains(t, text, "go_goroutines")
}
