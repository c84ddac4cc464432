package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/raphaelgruber/autoreadme/internal/models"
)

// MemoryStore keeps job records in memory. Each update builds a fresh Job
// value and swaps the map entry wholesale, so readers always get a
// consistent snapshot and are never blocked for longer than the map swap.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*models.Job)}
}

// Create persists a new job record.
func (s *MemoryStore) Create(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns a copy of the job or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Job, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

// Update applies a partial update as a single atomic replace.
func (s *MemoryStore) Update(_ context.Context, id string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}

	next := cur.Clone()
	apply(next, u, time.Now().UTC())
	s.jobs[id] = next
	return nil
}

// List returns all jobs, most recently created first.
func (s *MemoryStore) List(_ context.Context) ([]*models.Job, error) {
	s.mu.RLock()
	jobs := make([]*models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(jobs, func(a, b *models.Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return jobs, nil
}
