package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
)

// Source serves the default content document from a JSON or YAML file.
type Source struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastChange    *time.Time
}

// NewSource creates a Source for the file at path.
func NewSource(path string, config Config) *Source {
	return &Source{Path: path, config: config}
}

// Open opens the defaults file. The format follows its extension.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, content.Format, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open default content: %w", err)
	}
	return f, content.FormatFromExt(s.Path), nil
}

// Watch reports changes to the defaults file until ctx is cancelled, then
// closes the returned channel. Bursts of file events are coalesced into a
// single notification.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	pending := make(chan struct{}, 1)
	w := newWatchWorker(s, pending)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	out := make(chan struct{})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-pending:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.config.Logger != nil {
			s.config.Logger.Error("content watch bridge failed", "error", err)
		}
	}))
	return out, nil
}

func (s *Source) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Source) recordChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastChange = &now
}

func (s *Source) absPath() string {
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return filepath.Clean(s.Path)
	}
	return abs
}

var _ core.ContentSource = (*Source)(nil)
var _ core.Watchable = (*Source)(nil)
