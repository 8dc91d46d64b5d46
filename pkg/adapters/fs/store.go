// Package fs implements folio's file-system adapters: a key-value Store,
// the export artifact writer, the asset store for uploads and a watched
// source for default content.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/aretw0/folio/pkg/core"
)

// ErrInvalidKey is returned for keys that are not safe file names.
var ErrInvalidKey = errors.New("invalid store key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Config holds the configuration for the filesystem adapters.
type Config struct {
	Path         string // data directory
	SystemDir    string // hidden directory holding the key-value files, e.g. ".folio"
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error) // called for watcher failures
}

func (c Config) systemDir() string {
	if c.SystemDir == "" {
		return ".folio"
	}
	return c.SystemDir
}

// Store implements core.Store with one file per key below {Path}/{SystemDir}/store.
type Store struct {
	Path   string
	config Config
	dir    string

	mu     sync.RWMutex
	writes int
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	return &Store{
		Path:   config.Path,
		config: config,
		dir:    filepath.Join(config.Path, config.systemDir(), "store"),
	}
}

// Initialize creates the data and store directories.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
	}
	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

func (s *Store) keyPath(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}

// Get reads the file for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value atomically to the file for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := writeFileAtomic(path, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.writes++

	if s.config.Logger != nil {
		s.config.Logger.Debug("store write", "key", key, "bytes", len(value))
	}
	return nil
}

// Delete removes the file for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

var _ core.Store = (*Store)(nil)
