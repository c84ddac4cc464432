package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/autoreadme/internal/models"
)

func newTestJob(id string) *models.Job {
	return &models.Job{
		ID:        id,
		RepoURL:   "https://github.com/user/repo",
		Status:    models.JobStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStore_GetUnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CreateThenGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTestJob("a")))

	job, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.Empty(t, job.Stage, "queued job must have no stage")
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTestJob("a")))

	job, err := s.Get(ctx, "a")
	require.NoError(t, err)
	job.Status = models.JobStatusFailed

	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, again.Status, "reader mutation must not leak into the store")
}

func TestMemoryStore_UpdateClearsStageOutsideProcessing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTestJob("a")))

	processing := models.JobStatusProcessing
	stage := models.StageCloning
	require.NoError(t, s.Update(ctx, "a", Update{Status: &processing, Stage: &stage}))

	job, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.StageCloning, job.Stage)

	failed := models.JobStatusFailed
	msg := "failed to clone repository"
	require.NoError(t, s.Update(ctx, "a", Update{Status: &failed, Error: &msg, CompletedAt: true}))

	job, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, job.Stage, "terminal job must have no stage")
	assert.Equal(t, msg, job.Error)
	assert.NotNil(t, job.CompletedAt)
}

func TestMemoryStore_UpdateUnknownID(t *testing.T) {
	s := NewMemoryStore()

	queued := models.JobStatusQueued
	err := s.Update(context.Background(), "nope", Update{Status: &queued})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_PartialUpdateKeepsOtherFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTestJob("a")))

	processing := models.JobStatusProcessing
	stage := models.StageGenerating
	n := 7
	require.NoError(t, s.Update(ctx, "a", Update{Status: &processing, Stage: &stage, FilesProcessed: &n}))

	k := 5
	require.NoError(t, s.Update(ctx, "a", Update{DocumentsGenerated: &k}))

	job, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, job.FilesProcessed)
	assert.Equal(t, 5, job.DocumentsGenerated)
	assert.Equal(t, models.StageGenerating, job.Stage)
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	older := newTestJob("older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newTestJob("newer")

	require.NoError(t, s.Create(ctx, older))
	require.NoError(t, s.Create(ctx, newer))

	jobs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "newer", jobs[0].ID)
	assert.Equal(t, "older", jobs[1].ID)
}

// A reader polling during updates must only ever observe fully-applied
// states: processing always carries a stage, completed always carries a
// result URL.
func TestMemoryStore_ConcurrentReadersSeeConsistentSnapshots(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTestJob("a")))

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				job, err := s.Get(ctx, "a")
				if err != nil {
					t.Errorf("unexpected read error: %v", err)
					return
				}
				if job.Status == models.JobStatusProcessing && job.Stage == "" {
					t.Error("observed processing status without a stage")
					return
				}
				if job.ResultURL != "" && job.Status != models.JobStatusCompleted {
					t.Error("observed result_url before completion")
					return
				}
			}
		}()
	}

	stages := []models.JobStage{models.StageCloning, models.StageAnalyzing, models.StageGenerating, models.StageUploading}
	processing := models.JobStatusProcessing
	for i := 0; i < 50; i++ {
		for _, st := range stages {
			stage := st
			require.NoError(t, s.Update(ctx, "a", Update{Status: &processing, Stage: &stage}))
		}
	}
	completed := models.JobStatusCompleted
	url := "https://example.com/doc"
	require.NoError(t, s.Update(ctx, "a", Update{Status: &completed, ResultURL: &url, CompletedAt: true}))

	close(done)
	wg.Wait()
}
