package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/todo/internal/logging"
	"github.com/balkashynov/todo/internal/models"
)

// Store is the SQLite backed key-value store. Each task is one row keyed by
// its id, the value being the JSON encoded record.
type Store struct {
	db     *gorm.DB
	policy LoadPolicy
	logger *log.Logger

	mu      sync.Mutex
	skipped []SkippedEntry
}

// Option configures a Store or a Memory store.
type Option func(*options)

type options struct {
	policy LoadPolicy
	logger *log.Logger
}

// WithLoadPolicy sets how invalid entries are treated by LoadAll
func WithLoadPolicy(p LoadPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger used for skipped entries and SQL diagnostics
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{policy: PolicySkip, logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open sets up the database connection and runs migrations
func Open(dbPath string, opts ...Option) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	o := buildOptions(opts)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logging.Gorm(o.logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Entry{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, policy: o.policy, logger: o.logger}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Put stores task under id, replacing any existing value
func (s *Store) Put(ctx context.Context, id string, task models.Task) error {
	value, err := encodeEntry(task)
	if err != nil {
		return &StorageError{Op: "put", Key: id, Err: err}
	}
	entry := models.Entry{Key: id, Value: value}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return &StorageError{Op: "put", Key: id, Err: err}
	}
	return nil
}

// Remove deletes the entry for id. A missing key is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Entry{Key: id}).Error; err != nil {
		return &StorageError{Op: "remove", Key: id, Err: err}
	}
	return nil
}

// LoadAll reads every entry in insertion order and decodes it
func (s *Store) LoadAll(ctx context.Context) ([]models.Task, error) {
	var entries []models.Entry
	if err := s.db.WithContext(ctx).Order("created_at, rowid").Find(&entries).Error; err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}

	raw := make([]rawEntry, len(entries))
	for i, e := range entries {
		raw[i] = rawEntry{key: e.Key, value: e.Value}
	}
	tasks, skipped, err := decodeAll(raw, s.policy, s.logger)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.skipped = skipped
	s.mu.Unlock()
	return tasks, nil
}

// Skipped returns the entries dropped by the last LoadAll
func (s *Store) Skipped() []SkippedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SkippedEntry(nil), s.skipped...)
}
