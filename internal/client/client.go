// Package client provides an HTTP client for the autoreadme server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Job mirrors the server's status snapshot.
type Job struct {
	ID                 string          `json:"job_id"`
	Status             string          `json:"status"`
	Stage              string          `json:"stage,omitempty"`
	FilesProcessed     int             `json:"files_processed"`
	DocumentsGenerated int             `json:"documents_generated"`
	Result             []DocumentEntry `json:"result,omitempty"`
	ResultURL          string          `json:"result_url,omitempty"`
	Error              string          `json:"error,omitempty"`
}

// DocumentEntry is one file's outcome in a completed job.
type DocumentEntry struct {
	File    string `json:"file"`
	Summary string `json:"summary,omitempty"`
	Failed  string `json:"failed,omitempty"`
}

// Terminal reports whether polling can stop.
func (j *Job) Terminal() bool {
	return j.Status == "completed" || j.Status == "failed"
}

// Client talks to the autoreadme API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. If baseURL is empty, uses AUTOREADME_SERVER_URL
// or defaults to localhost:8080.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("AUTOREADME_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submit posts a repository URL and returns the created job.
func (c *Client) Submit(ctx context.Context, repoURL string) (*Job, error) {
	body, err := json.Marshal(map[string]string{"repo_url": repoURL})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var job Job
	if err := c.do(req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Status fetches the current snapshot of one job.
func (c *Client) Status(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	var job Job
	if err := c.do(req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs fetches all jobs known to the server.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/jobs", nil)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	if err := c.do(req, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// do executes the request and decodes the JSON response, translating
// API error payloads into Go errors.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
