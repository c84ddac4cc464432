package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/metrics"
	"github.com/raphaelgruber/autoreadme/internal/models"
	"github.com/raphaelgruber/autoreadme/internal/service"
	"github.com/raphaelgruber/autoreadme/internal/store"
)

type stubFetcher struct{}

func (stubFetcher) Clone(ctx context.Context, repoURL string) (*fetch.Workspace, error) {
	return &fetch.Workspace{}, nil
}

func (stubFetcher) Index(ctx context.Context, ws *fetch.Workspace) ([]fetch.Candidate, error) {
	return []fetch.Candidate{
		{Path: "README.md", Content: "# Demo"},
		{Path: "main.go", Content: "package main"},
	}, nil
}

type stubModel struct{}

func (stubModel) Summarize(ctx context.Context, path, content string) (string, error) {
	return "summary of " + path, nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(ctx context.Context, jobID string, document []byte) (string, error) {
	return "https://cdn.example.com/" + jobID + "/index.html", nil
}

type apiFixture struct {
	server  *Server
	manager *service.JobManager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	st := store.NewMemoryStore()
	mc := metrics.NewCollector()
	summarizer := service.NewFileSummarizer(stubModel{}, 2, 0, mc)
	pipeline := service.NewPipeline(st, stubFetcher{}, summarizer, stubPublisher{}, mc)
	manager := service.NewJobManager(st, pipeline, 2)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &apiFixture{
		server:  New("0", manager, mc, logger),
		manager: manager,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v))
	return v
}

func TestSubmitAcceptsValidRepository(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/submit", `{"repo_url":"https://github.com/user/repo"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, resp["job_id"])
	assert.Equal(t, "queued", resp["status"])
	assert.Equal(t, "Job has been queued for processing", resp["message"])

	f.manager.Wait()
}

func TestSubmitRejectsInvalidRepository(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/submit", `{"repo_url":"ftp://example.com/x/y"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[map[string]string](t, rec)
	assert.Contains(t, resp["error"], "invalid repository URL")
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/submit", `{"repo_url": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "invalid request body", resp["error"])
}

func TestStatusUnknownJob(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/status/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeBody[map[string]string](t, rec)
	assert.Contains(t, resp["error"], "does-not-exist")
}

func TestSubmitThenPollToCompletion(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/submit", `{"repo_url":"https://github.com/user/repo"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	jobID := decodeBody[map[string]string](t, rec)["job_id"]

	f.manager.Wait()

	rec = f.do(t, http.MethodGet, "/api/status/"+jobID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		JobID              string                 `json:"job_id"`
		Status             models.JobStatus       `json:"status"`
		Stage              models.JobStage        `json:"stage"`
		FilesProcessed     int                    `json:"files_processed"`
		DocumentsGenerated int                    `json:"documents_generated"`
		Result             []models.DocumentEntry `json:"result"`
		ResultURL          string                 `json:"result_url"`
		Error              string                 `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))

	assert.Equal(t, jobID, status.JobID)
	assert.Equal(t, models.JobStatusCompleted, status.Status)
	assert.Empty(t, status.Stage)
	assert.Equal(t, 2, status.FilesProcessed)
	assert.Equal(t, 2, status.DocumentsGenerated)
	require.Len(t, status.Result, 2)
	assert.Equal(t, fmt.Sprintf("https://cdn.example.com/%s/index.html", jobID), status.ResultURL)
	assert.Empty(t, status.Error)
}

func TestListJobs(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]json.RawMessage](t, rec))

	f.do(t, http.MethodPost, "/api/submit", `{"repo_url":"https://github.com/user/repo"}`)
	f.manager.Wait()

	rec = f.do(t, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]json.RawMessage](t, rec), 1)
}

func TestStats(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/api/submit", `{"repo_url":"https://github.com/user/repo"}`)
	f.manager.Wait()

	rec := f.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeBody[map[string]json.RawMessage](t, rec)
	assert.Contains(t, snap, "uptime_seconds")
	assert.Contains(t, snap, "jobs")
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestRoot(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/no-such-page", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
