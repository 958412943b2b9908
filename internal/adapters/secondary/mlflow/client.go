package mlflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/config"
	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

const apiPrefix = "/api/2.0/mlflow"

type mlflowClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewMLflowClient creates an ExperimentTracker backed by the MLflow REST API.
func NewMLflowClient(cfg *config.MLflowConfig) ports.ExperimentTracker {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &mlflowClient{
		baseURL:  cfg.TrackingURI,
		username: cfg.Username,
		password: cfg.Password,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// MLflow API structures
type tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type metric struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

type experimentResponse struct {
	Experiment struct {
		ExperimentID string `json:"experiment_id"`
		Name         string `json:"name"`
	} `json:"experiment"`
}

type createExperimentResponse struct {
	ExperimentID string `json:"experiment_id"`
}

type createRunRequest struct {
	ExperimentID string `json:"experiment_id"`
	RunName      string `json:"run_name"`
	StartTime    int64  `json:"start_time"`
	Tags         []tag  `json:"tags"`
}

type createRunResponse struct {
	Run struct {
		Info struct {
			RunID string `json:"run_id"`
		} `json:"info"`
	} `json:"run"`
}

type logBatchRequest struct {
	RunID   string   `json:"run_id"`
	Metrics []metric `json:"metrics"`
	Params  []param  `json:"params"`
}

type updateRunRequest struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	EndTime int64  `json:"end_time"`
}

type apiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// LogRun creates an MLflow run under the run's experiment, logs params and
// metrics in one batch and closes it.
func (c *mlflowClient) LogRun(ctx context.Context, run *domain.TrainingRun) (string, error) {
	experimentID, err := c.experimentID(ctx, run.ExperimentName)
	if err != nil {
		return "", err
	}

	var created createRunResponse
	err = c.post(ctx, "/runs/create", createRunRequest{
		ExperimentID: experimentID,
		RunName:      run.ID.String(),
		StartTime:    run.StartedAt.UnixMilli(),
		Tags:         []tag{{Key: "mlflow.source.name", Value: "wine-quality-service"}},
	}, &created)
	if err != nil {
		return "", err
	}
	runID := created.Run.Info.RunID

	now := time.Now().UnixMilli()
	batch := logBatchRequest{RunID: runID}
	for k, v := range run.Params.AsMap() {
		batch.Params = append(batch.Params, param{Key: k, Value: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	if run.Metrics != nil {
		for k, v := range run.Metrics.AsMap() {
			batch.Metrics = append(batch.Metrics, metric{Key: k, Value: v, Timestamp: now})
		}
	}
	if err := c.post(ctx, "/runs/log-batch", batch, nil); err != nil {
		return runID, err
	}

	if err := c.post(ctx, "/runs/update", updateRunRequest{
		RunID:   runID,
		Status:  string(domain.RunStatusFinished),
		EndTime: now,
	}, nil); err != nil {
		return runID, err
	}

	log.WithFields(log.Fields{
		"experiment_id": experimentID,
		"mlflow_run_id": runID,
	}).Info("run logged to mlflow")
	return runID, nil
}

// experimentID resolves the experiment by name, creating it when missing.
func (c *mlflowClient) experimentID(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("experiment_name", name)

	var found experimentResponse
	status, err := c.do(ctx, http.MethodGet, "/experiments/get-by-name?"+params.Encode(), nil, &found)
	if err == nil {
		return found.Experiment.ExperimentID, nil
	}
	if status != http.StatusNotFound {
		return "", err
	}

	var created createExperimentResponse
	if err := c.post(ctx, "/experiments/create", map[string]string{"name": name}, &created); err != nil {
		return "", err
	}
	return created.ExperimentID, nil
}

func (c *mlflowClient) post(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.do(ctx, http.MethodPost, path, body, out)
	return err
}

func (c *mlflowClient) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrTrackingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return resp.StatusCode, fmt.Errorf("%w: %s %s: %d %s %s",
			domain.ErrTrackingFailed, method, path, resp.StatusCode, apiErr.ErrorCode, apiErr.Message)
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
	}
	return resp.StatusCode, nil
}
