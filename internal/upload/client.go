package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/logbook/internal/ingest"
)

// Client sends Alpha exports to a logbook server over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the logbook server.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendAlpha POSTs one CSV export to the server's alpha ingest endpoint.
// Transport errors and 5xx responses are retried up to 3 times with
// exponential backoff. A 4xx means the server rejected the file and is
// returned at once.
func (c *Client) SendAlpha(ctx context.Context, csv []byte) (*ingest.Result, error) {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.serverURL+"/api/v1/ingest/alpha", bytes.NewReader(csv))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var res ingest.Result
			if err := json.Unmarshal(body, &res); err != nil {
				return nil, fmt.Errorf("decoding ingest result: %w", err)
			}
			return &res, nil
		case resp.StatusCode < 500:
			return nil, &RejectedError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
		lastErr = fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, body)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}

// RejectedError is a client error from the server. Retrying the same file
// will not help.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("server rejected export (status %d): %s", e.Status, e.Body)
}
