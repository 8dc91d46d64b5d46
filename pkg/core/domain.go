// Package core holds the domain service of folio and the ports it depends on.
package core

import (
	"fmt"
	"strings"
)

// Fixed keys of the persistence sink.
const (
	// ContentKey holds the merged content document.
	ContentKey = "contentData"
	// PageViewsKey holds the page-view counter as a decimal string.
	PageViewsKey = "pageViews"
	// LoginKey holds the admin login flag.
	LoginKey = "adminLoggedIn"
)

// DefaultExportName is the file name offered for the export artifact.
const DefaultExportName = "content.json"

// EventType represents the kind of change in the editing session.
type EventType string

const (
	EventUpdate EventType = "UPDATE"
	EventSave   EventType = "SAVE"
	EventReload EventType = "RELOAD"
)

// Event represents a change in the editing session.
type Event struct {
	Type      EventType
	Path      string   // set for EventUpdate
	Sections  []string // set for EventSave and EventReload
	Timestamp int64    // Unix timestamp
}

func (e Event) String() string {
	switch e.Type {
	case EventUpdate:
		return fmt.Sprintf("%s %s", e.Type, e.Path)
	default:
		return fmt.Sprintf("%s [%s]", e.Type, strings.Join(e.Sections, ","))
	}
}

// SaveResult describes the outcome of a save.
type SaveResult struct {
	Sections []string `json:"sections"`
	Artifact string   `json:"artifact,omitempty"` // location of the export artifact, empty without an Exporter
}
