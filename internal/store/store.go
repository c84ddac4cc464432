// Package store persists job records and serves status reads.
//
// Every job has exactly one writer (the pipeline goroutine driving it), so
// implementations only need to make each update atomic with respect to
// readers: a poller must never observe a half-applied update such as a
// processing status with no stage, or a result URL before completion.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/raphaelgruber/autoreadme/internal/models"
)

// ErrNotFound indicates the requested job id was never created.
// Use errors.Is() to check for it in calling code.
var ErrNotFound = errors.New("job not found")

// Update carries the fields of a partial job update. Nil fields are
// left untouched; the whole set is applied as one atomic replace.
type Update struct {
	Status             *models.JobStatus
	Stage              *models.JobStage
	FilesProcessed     *int
	DocumentsGenerated *int
	Result             []models.DocumentEntry
	ResultURL          *string
	Error              *string
	CompletedAt        bool // stamp completion time
}

// Store is the job record contract shared by the submitter, the pipeline
// and status readers.
type Store interface {
	// Create persists a new job in the queued state.
	Create(ctx context.Context, job *models.Job) error

	// Get returns a snapshot of the job, or ErrNotFound for unknown ids.
	// The returned value is a copy; callers may not mutate shared state
	// through it.
	Get(ctx context.Context, id string) (*models.Job, error)

	// Update applies a partial update atomically. Returns ErrNotFound
	// for unknown ids.
	Update(ctx context.Context, id string, u Update) error

	// List returns all jobs, most recently created first.
	List(ctx context.Context) ([]*models.Job, error)
}

// apply merges an update into a job value. Shared by implementations so
// partial-update semantics cannot drift between drivers.
func apply(job *models.Job, u Update, ts time.Time) {
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.Stage != nil {
		job.Stage = *u.Stage
	}
	if u.FilesProcessed != nil {
		job.FilesProcessed = *u.FilesProcessed
	}
	if u.DocumentsGenerated != nil {
		job.DocumentsGenerated = *u.DocumentsGenerated
	}
	if u.Result != nil {
		job.Result = u.Result
	}
	if u.ResultURL != nil {
		job.ResultURL = *u.ResultURL
	}
	if u.Error != nil {
		job.Error = *u.Error
	}
	if u.CompletedAt {
		job.CompletedAt = &ts
	}
	// Stage is meaningful only while processing.
	if job.Status != models.JobStatusProcessing {
		job.Stage = ""
	}
}
