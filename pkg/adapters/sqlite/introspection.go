package sqlite

import "github.com/aretw0/introspection"

// StoreState exposes the database location and write count.
type StoreState struct {
	Path   string `json:"path"`
	Writes int64  `json:"writes"`
	InUse  int    `json:"in_use"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:   s.Path,
		Writes: s.writes.Load(),
		InUse:  s.db.Stats().InUse,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
