package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path      string `json:"path"`
	SystemDir string `json:"system_dir"`
	ReadOnly  bool   `json:"read_only"`
	Writes    int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:      s.Path,
		SystemDir: s.config.systemDir(),
		ReadOnly:  s.config.ReadOnly,
		Writes:    s.writes,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

// SourceState exposes the watcher state of a Source.
type SourceState struct {
	Path          string     `json:"path"`
	WatcherActive bool       `json:"watcher_active"`
	LastChange    *time.Time `json:"last_change,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SourceState{
		Path:          s.Path,
		WatcherActive: s.watcherActive,
		LastChange:    s.lastChange,
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "source"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
var _ introspection.Introspectable = (*Source)(nil)
var _ introspection.Component = (*Source)(nil)
