package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) ports.Fetcher {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads url into w. Any non-2xx response is an error.
func (c *Client) Fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create download request: %w", err)
	}

	log.WithFields(log.Fields{
		"method": http.MethodGet,
		"url":    url,
	}).Debug("fetching remote resource")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %s returned %s", domain.ErrDownloadFailed, url, resp.Status)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read response body: %w", err)
	}
	return n, nil
}
