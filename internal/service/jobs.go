package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/models"
	"github.com/raphaelgruber/autoreadme/internal/store"
)

// JobManager accepts submissions and schedules pipeline runs. A fixed
// pool of slots bounds how many jobs run at once; submissions beyond the
// bound stay queued until a slot frees up.
type JobManager struct {
	store    store.Store
	pipeline *Pipeline
	slots    chan struct{}
	wg       sync.WaitGroup
}

// NewJobManager creates a manager running at most workers jobs concurrently.
func NewJobManager(st store.Store, pipeline *Pipeline, workers int) *JobManager {
	if workers <= 0 {
		workers = 4
	}
	return &JobManager{
		store:    st,
		pipeline: pipeline,
		slots:    make(chan struct{}, workers),
	}
}

// Submit validates the repository URL, creates the job record in the
// queued state and schedules the pipeline run. It returns before the
// pipeline completes; callers poll Status for progress.
func (m *JobManager) Submit(ctx context.Context, repoURL string) (*models.Job, error) {
	if err := fetch.ValidateRepoURL(repoURL); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		RepoURL:   repoURL,
		Status:    models.JobStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Create(ctx, job); err != nil {
		return nil, err
	}

	slog.Info("job submitted", "job_id", job.ID, "repo_url", repoURL)

	m.wg.Add(1)
	go m.run(job.ID, repoURL)

	return job, nil
}

// run acquires a worker slot and drives the pipeline, recovering from
// panics so a bad job cannot take the process down.
func (m *JobManager) run(jobID, repoURL string) {
	defer m.wg.Done()

	m.slots <- struct{}{}
	defer func() { <-m.slots }()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("pipeline panicked", "job_id", jobID, "panic", r)
			m.pipeline.fail(context.Background(), jobID, fmt.Errorf("internal panic: %v", r))
		}
	}()

	// Jobs keep running even if the submitting request has gone away.
	m.pipeline.Run(context.Background(), jobID, repoURL)
}

// Status returns the current job snapshot, or store.ErrNotFound.
func (m *JobManager) Status(ctx context.Context, id string) (*models.Job, error) {
	return m.store.Get(ctx, id)
}

// List returns all jobs, most recently submitted first.
func (m *JobManager) List(ctx context.Context) ([]*models.Job, error) {
	return m.store.List(ctx)
}

// Wait blocks until all scheduled jobs have finished. Used by one-shot
// CLI runs and tests.
func (m *JobManager) Wait() {
	m.wg.Wait()
}
