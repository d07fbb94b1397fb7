package agent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TrackerState is the single persisted row holding the tracking-active flag.
// It survives process restarts so a relaunched agent resumes correctly.
type TrackerState struct {
	ID             uint `gorm:"primarykey"`
	TrackingActive bool
	UpdatedAt      time.Time
}

// PendingSample is a location sample that failed to reach the server and is
// replayed on a later cycle.
type PendingSample struct {
	ID         uint `gorm:"primarykey"`
	Latitude   float64
	Longitude  float64
	CapturedAt time.Time
	CreatedAt  time.Time
}

// Store is the agent's local SQLite state.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the agent state database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.AutoMigrate(&TrackerState{}, &PendingSample{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &Store{db: db}, nil
}

// TrackingActive reads the persisted flag. A missing row means inactive.
func (s *Store) TrackingActive() (bool, error) {
	var state TrackerState
	err := s.db.First(&state, 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read tracker state: %w", err)
	}
	return state.TrackingActive, nil
}

// SetTrackingActive persists the flag.
func (s *Store) SetTrackingActive(active bool) error {
	state := TrackerState{ID: 1, TrackingActive: active, UpdatedAt: time.Now()}
	if err := s.db.Save(&state).Error; err != nil {
		return fmt.Errorf("failed to persist tracker state: %w", err)
	}
	return nil
}

// EnqueueSample buffers a sample that could not be delivered.
func (s *Store) EnqueueSample(sample PendingSample) error {
	if err := s.db.Create(&sample).Error; err != nil {
		return fmt.Errorf("failed to enqueue sample: %w", err)
	}
	return nil
}

// PendingSamples returns buffered samples, oldest first.
func (s *Store) PendingSamples(limit int) ([]PendingSample, error) {
	var samples []PendingSample
	if err := s.db.Order("captured_at asc").Limit(limit).Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending samples: %w", err)
	}
	return samples, nil
}

// DeleteSample removes a delivered sample from the buffer.
func (s *Store) DeleteSample(id uint) error {
	if err := s.db.Delete(&PendingSample{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete pending sample: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
