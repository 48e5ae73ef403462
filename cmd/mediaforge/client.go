package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mediaforge/internal/api"
)

// apiClient is a thin HTTP client over the daemon API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) CreateJob(ctx context.Context, key string, pipeline []string) (api.CreateJobResponse, error) {
	var out api.CreateJobResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/jobs", api.CreateJobRequest{Key: key, Pipeline: pipeline}, &out)
	return out, err
}

func (c *apiClient) GetJob(ctx context.Context, id string) (api.JobView, error) {
	var out api.JobView
	err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *apiClient) ListJobs(ctx context.Context, statuses []string) ([]api.JobView, error) {
	path := "/api/v1/jobs"
	if len(statuses) > 0 {
		query := url.Values{}
		for _, status := range statuses {
			query.Add("status", status)
		}
		path += "?" + query.Encode()
	}
	var out api.JobListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *apiClient) Presign(ctx context.Context, filename, contentType string) (api.PresignResponse, error) {
	var out api.PresignResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/uploads/presign", api.PresignRequest{
		Filename:    filename,
		ContentType: contentType,
	}, &out)
	return out, err
}

func (c *apiClient) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &out)
	return out, err
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to daemon at %s: %w (is mediaforged running?)", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Error != "" {
			return fmt.Errorf("daemon rejected request (%d): %s", resp.StatusCode, payload.Error)
		}
		return fmt.Errorf("daemon returned %d for %s %s", resp.StatusCode, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
