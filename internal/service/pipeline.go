package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/raphaelgruber/autoreadme/internal/compile"
	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/metrics"
	"github.com/raphaelgruber/autoreadme/internal/models"
	"github.com/raphaelgruber/autoreadme/internal/publish"
	"github.com/raphaelgruber/autoreadme/internal/store"
)

// Pipeline drives one documentation job through its stages, writing
// every transition to the job store before the stage begins. It is the
// only writer of its job's record.
type Pipeline struct {
	store      store.Store
	fetcher    fetch.Fetcher
	summarizer *FileSummarizer
	publisher  publish.Publisher
	metrics    *metrics.Collector
	now        func() time.Time
}

// NewPipeline wires the pipeline's collaborators together.
func NewPipeline(st store.Store, f fetch.Fetcher, s *FileSummarizer, p publish.Publisher, mc *metrics.Collector) *Pipeline {
	return &Pipeline{
		store:      st,
		fetcher:    f,
		summarizer: s,
		publisher:  p,
		metrics:    mc,
		now:        time.Now,
	}
}

// Run executes the full pipeline for one job. Every exit path leaves the
// job in exactly one terminal state and releases the workspace.
func (p *Pipeline) Run(ctx context.Context, jobID, repoURL string) {
	jobStart := p.now()

	var ws *fetch.Workspace
	defer func() {
		// Later stages read from the workspace, so cleanup is tied to
		// the whole run rather than to the clone call.
		ws.Cleanup()
	}()

	// Stage: cloning
	p.setStage(ctx, jobID, models.StageCloning)
	stageStart := p.now()
	ws, err := p.fetcher.Clone(ctx, repoURL)
	if err != nil {
		p.metrics.RecordFailure(metrics.OpClone, time.Since(stageStart))
		p.fail(ctx, jobID, err)
		return
	}
	p.metrics.RecordTiming(metrics.OpClone, time.Since(stageStart))

	// Stage: analyzing
	p.setStage(ctx, jobID, models.StageAnalyzing)
	stageStart = p.now()
	candidates, err := p.fetcher.Index(ctx, ws)
	if err != nil {
		p.metrics.RecordFailure(metrics.OpIndex, time.Since(stageStart))
		p.fail(ctx, jobID, err)
		return
	}
	p.metrics.RecordTiming(metrics.OpIndex, time.Since(stageStart))

	// Stage: generating
	total := len(candidates)
	p.update(ctx, jobID, store.Update{
		Stage:          stagePtr(models.StageGenerating),
		FilesProcessed: &total,
	})
	results := p.summarizer.SummarizeAll(ctx, candidates)
	succeeded := successCount(results)
	if succeeded == 0 {
		p.fail(ctx, jobID, ErrAllSummariesFailed)
		return
	}

	// Stage: uploading (compilation has no stage label of its own)
	p.update(ctx, jobID, store.Update{
		Stage:              stagePtr(models.StageUploading),
		DocumentsGenerated: &succeeded,
	})

	entries := toEntries(results)
	meta := compile.Metadata{
		RepoURL:     repoURL,
		RepoName:    fetch.RepoName(repoURL),
		GeneratedAt: jobStart.UTC().Format("January 2, 2006 at 15:04 MST"),
	}
	document, err := compile.Compile(meta, entries)
	if err != nil {
		p.fail(ctx, jobID, err)
		return
	}

	stageStart = p.now()
	resultURL, err := p.publisher.Publish(ctx, jobID, document)
	if err != nil {
		p.metrics.RecordFailure(metrics.OpUpload, time.Since(stageStart))
		p.fail(ctx, jobID, err)
		return
	}
	p.metrics.RecordTiming(metrics.OpUpload, time.Since(stageStart))

	// Terminal state, counts and URL in one atomic write.
	completed := models.JobStatusCompleted
	p.update(ctx, jobID, store.Update{
		Status:             &completed,
		FilesProcessed:     &total,
		DocumentsGenerated: &succeeded,
		Result:             entries,
		ResultURL:          &resultURL,
		CompletedAt:        true,
	})
	p.metrics.RecordTiming(metrics.OpJob, time.Since(jobStart))

	slog.Info("job completed",
		"job_id", jobID,
		"files", total,
		"documents", succeeded,
		"duration_ms", time.Since(jobStart).Milliseconds())
}

// setStage moves the job into processing at the given stage.
func (p *Pipeline) setStage(ctx context.Context, jobID string, stage models.JobStage) {
	processing := models.JobStatusProcessing
	p.update(ctx, jobID, store.Update{Status: &processing, Stage: &stage})
	slog.Info("stage started", "job_id", jobID, "stage", stage)
}

// fail moves the job to its failed terminal state with a coarse
// error-kind description. Internal detail stays in the logs.
func (p *Pipeline) fail(ctx context.Context, jobID string, cause error) {
	failed := models.JobStatusFailed
	msg := failureMessage(cause)
	p.update(ctx, jobID, store.Update{
		Status:      &failed,
		Error:       &msg,
		CompletedAt: true,
	})
	p.metrics.RecordFailure(metrics.OpJob, 0)
	slog.Error("job failed", "job_id", jobID, "error", cause)
}

// update writes to the store; a failed write is logged, not fatal, so a
// transient store error cannot strand the pipeline mid-stage.
func (p *Pipeline) update(ctx context.Context, jobID string, u store.Update) {
	if err := p.store.Update(ctx, jobID, u); err != nil {
		slog.Warn("failed to persist job update", "job_id", jobID, "error", err)
	}
}

// failureMessage maps a stage error to the coarse description exposed to
// status pollers.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, fetch.ErrInvalidRepository):
		return fetch.ErrInvalidRepository.Error()
	case errors.Is(err, fetch.ErrCloneFailed):
		return fetch.ErrCloneFailed.Error()
	case errors.Is(err, fetch.ErrEmptyRepository):
		return fetch.ErrEmptyRepository.Error()
	case errors.Is(err, ErrAllSummariesFailed):
		return ErrAllSummariesFailed.Error()
	case errors.Is(err, publish.ErrUploadFailed):
		return publish.ErrUploadFailed.Error()
	default:
		return "internal error"
	}
}

// toEntries converts summary results to document entries, preserving
// order and marking failures distinctly.
func toEntries(results []SummaryResult) []models.DocumentEntry {
	entries := make([]models.DocumentEntry, 0, len(results))
	for _, r := range results {
		e := models.DocumentEntry{File: r.Path}
		if r.Err != nil {
			e.Failed = "summarization failed after retries"
		} else {
			e.Summary = r.Text
		}
		entries = append(entries, e)
	}
	return entries
}

func stagePtr(s models.JobStage) *models.JobStage { return &s }
