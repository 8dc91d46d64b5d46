package core

import (
	"context"
	"io"

	"github.com/aretw0/folio/pkg/content"
)

// Store is the persistence sink: a flat key-value store.
// Adhering to this interface keeps the service independent of the
// storage backend (memory, files, Redis, SQLite).
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Initialize ensures the underlying storage is ready (directories, schema, connectivity).
	Initialize(ctx context.Context) error
}

// Counter is implemented by stores that can increment a counter atomically.
// The service prefers it over read-modify-write for the page-view counter.
type Counter interface {
	Incr(ctx context.Context, key string, n int64) (int64, error)
}

// Exporter offers a document to the user as a named artifact.
type Exporter interface {
	// Export writes doc under name and returns where it ended up.
	Export(ctx context.Context, name string, doc content.Map) (string, error)
}

// Asset kinds.
const (
	KindImage    = "image"
	KindSchedule = "schedule"
)

// Asset is an uploaded file on its way to an AssetStore.
type Asset struct {
	Kind        string // KindImage or KindSchedule
	Folder      string // target folder below the kind root
	Name        string // file name inside Folder
	ContentType string
	Body        io.Reader
}

// AssetRef identifies a stored asset.
type AssetRef struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Path        string `json:"path"` // slash separated, relative to the asset root
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

// AssetStore persists uploaded assets.
type AssetStore interface {
	Put(ctx context.Context, asset Asset) (AssetRef, error)
	// List returns the assets whose path matches a glob pattern ("images/**").
	List(ctx context.Context, pattern string) ([]AssetRef, error)
}

// ContentSource loads the default content document.
type ContentSource interface {
	Open(ctx context.Context) (io.ReadCloser, content.Format, error)
}

// Watchable is implemented by sources that can report changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
