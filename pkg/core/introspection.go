package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	EventBufferSize int      `json:"event_buffer_size"`
	StoreType       string   `json:"store_type"`
	PathPolicy      string   `json:"path_policy"`
	Sections        []string `json:"sections"`
	DirtySections   []string `json:"dirty_sections,omitempty"`
	Exporter        bool     `json:"exporter"`
	ExportName      string   `json:"export_name"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	sections := make([]string, 0, len(s.doc))
	for k := range s.doc {
		sections = append(sections, k)
	}

	return ServiceState{
		EventBufferSize: s.eventBufferSize,
		StoreType:       storeType,
		PathPolicy:      s.policy.String(),
		Sections:        sortedCopy(sections),
		DirtySections:   s.dirtySectionsLocked(),
		Exporter:        s.exporter != nil,
		ExportName:      s.exportName,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
