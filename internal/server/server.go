// Package server exposes the job submission and status polling API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/metrics"
	"github.com/raphaelgruber/autoreadme/internal/models"
	"github.com/raphaelgruber/autoreadme/internal/service"
	"github.com/raphaelgruber/autoreadme/internal/store"
)

// Server wraps the HTTP API with lifecycle management.
type Server struct {
	http    *http.Server
	jobs    *service.JobManager
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates the API server listening on the given port.
func New(port string, jobs *service.JobManager, mc *metrics.Collector, logger *slog.Logger) *Server {
	s := &Server{
		jobs:    jobs,
		metrics: mc,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/status/{id}", s.handleStatus)
	mux.HandleFunc("GET /api/jobs", s.handleList)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      LoggingMiddleware(logger)(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the configured handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe starts serving and blocks.
func (s *Server) ListenAndServe() error {
	s.logger.Info("API listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown performs a graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// submitRequest is the body for POST /api/submit.
type submitRequest struct {
	RepoURL string `json:"repo_url"`
}

// submitResponse is returned after a successful submission.
type submitResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// statusResponse is the poll snapshot for one job.
type statusResponse struct {
	JobID              string                 `json:"job_id"`
	Status             models.JobStatus       `json:"status"`
	Stage              models.JobStage        `json:"stage,omitempty"`
	FilesProcessed     int                    `json:"files_processed"`
	DocumentsGenerated int                    `json:"documents_generated"`
	Result             []models.DocumentEntry `json:"result,omitempty"`
	ResultURL          string                 `json:"result_url,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

func snapshotResponse(job *models.Job) statusResponse {
	return statusResponse{
		JobID:              job.ID,
		Status:             job.Status,
		Stage:              job.Stage,
		FilesProcessed:     job.FilesProcessed,
		DocumentsGenerated: job.DocumentsGenerated,
		Result:             job.Result,
		ResultURL:          job.ResultURL,
		Error:              job.Error,
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := s.jobs.Submit(r.Context(), req.RepoURL)
	if err != nil {
		if errors.Is(err, fetch.ErrInvalidRepository) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{
		JobID:   job.ID,
		Status:  string(job.Status),
		Message: "Job has been queued for processing",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := s.jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("job not found: %s", id))
			return
		}
		s.logger.Error("status read failed", "job_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read job status")
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse(job))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.List(r.Context())
	if err != nil {
		s.logger.Error("job list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	out := make([]statusResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, snapshotResponse(job))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "autoreadme API"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
