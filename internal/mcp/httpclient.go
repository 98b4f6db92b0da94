package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/logbook/internal/analytics"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/program"
	"github.com/claude/logbook/internal/storage"
)

// HTTPClient implements DataSource by calling the logbook REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// getJSON fetches path and decodes the JSON body into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func pairParams(exercise, setType string) url.Values {
	v := url.Values{}
	v.Set("exercise", exercise)
	v.Set("set_type", setType)
	return v
}

func (c *HTTPClient) Program(ctx context.Context) ([]program.Workout, error) {
	var body struct {
		Workouts []program.Workout `json:"workouts"`
	}
	if err := c.getJSON(ctx, "/api/v1/program", nil, &body); err != nil {
		return nil, err
	}
	return body.Workouts, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/api/v1/exercises", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPClient) LastFor(ctx context.Context, exercise, setType string) (*models.Set, error) {
	var last *models.Set
	if err := c.getJSON(ctx, "/api/v1/last", pairParams(exercise, setType), &last); err != nil {
		return nil, err
	}
	return last, nil
}

func (c *HTTPClient) History(ctx context.Context, exercise string, limit int) ([]models.Set, error) {
	params := url.Values{}
	params.Set("exercise", exercise)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var rows []models.Set
	if err := c.getJSON(ctx, "/api/v1/history", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) BestPR(ctx context.Context, exercise, setType string) (*models.PR, error) {
	var pr *models.PR
	if err := c.getJSON(ctx, "/api/v1/pr", pairParams(exercise, setType), &pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (c *HTTPClient) Suggest(ctx context.Context, exercise, setType string) (*models.Suggestion, error) {
	var next *models.Suggestion
	if err := c.getJSON(ctx, "/api/v1/suggest", pairParams(exercise, setType), &next); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *HTTPClient) RecentSessions(ctx context.Context, limit int) ([]models.Session, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var sessions []models.Session
	if err := c.getJSON(ctx, "/api/v1/sessions", params, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) Snapshot(ctx context.Context) ([]analytics.SnapshotRow, error) {
	var rows []analytics.SnapshotRow
	if err := c.getJSON(ctx, "/api/v1/snapshot", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) BodyweightTrend(ctx context.Context, days int) (analytics.Trend, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	var trend analytics.Trend
	if err := c.getJSON(ctx, "/api/v1/bodyweight", params, &trend); err != nil {
		return analytics.Trend{}, err
	}
	return trend, nil
}

func (c *HTTPClient) TrainingIntensity(ctx context.Context, days int, exercise string) (*storage.TrainingIntensityResult, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	if exercise != "" {
		params.Set("exercise", exercise)
	}
	var result storage.TrainingIntensityResult
	if err := c.getJSON(ctx, "/api/v1/intensity", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Stats(ctx context.Context) (*storage.DataStats, error) {
	var stats storage.DataStats
	if err := c.getJSON(ctx, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
