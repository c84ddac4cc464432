package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/raphaelgruber/autoreadme/internal/models"
)

// GormStore persists job records in SQLite through GORM. Updates run in a
// transaction that reads the current row, merges the partial fields and
// saves the whole row back, so readers see either the old or the new
// record, never a mix.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GORM-backed store over an existing connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenSQLite opens (or creates) a SQLite job store at path and migrates
// the schema.
func OpenSQLite(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	s := NewGormStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates the jobs table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.Job{})
}

// Create persists a new job record.
func (s *GormStore) Create(ctx context.Context, job *models.Job) error {
	return s.db.WithContext(ctx).Create(job).Error
}

// Get returns the job or ErrNotFound.
func (s *GormStore) Get(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Update applies a partial update inside a transaction.
func (s *GormStore) Update(ctx context.Context, id string, u Update) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		err := tx.First(&job, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		apply(&job, u, time.Now().UTC())
		return tx.Save(&job).Error
	})
}

// List returns all jobs, most recently created first.
func (s *GormStore) List(ctx context.Context) ([]*models.Job, error) {
	var jobs []*models.Job
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
