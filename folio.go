package folio

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/contact"
	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
)

// --- Types ---

// Document is a nested content document.
type Document = content.Map

// Runtime bundles the wired components of an instance.
type Runtime = platform.Runtime

// --- Configuration ---

// Option defines a functional option for configuring folio.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = platform.AdapterMemory
	AdapterFS     = platform.AdapterFS
	AdapterRedis  = platform.AdapterRedis
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the service and adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom persistence sink.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the persistence sink by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory of the file sink (default ".folio").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithDefaults sets the default content file (JSON or YAML).
func WithDefaults(path string) Option {
	return platform.WithDefaults(path)
}

// WithExportDir sets where export artifacts are written.
func WithExportDir(dir string) Option {
	return platform.WithExportDir(dir)
}

// WithExportFormat selects the artifact format.
func WithExportFormat(f content.Format) Option {
	return platform.WithExportFormat(f)
}

// WithExportName sets the artifact file name.
func WithExportName(name string) Option {
	return platform.WithExportName(name)
}

// WithVersionedExport commits every artifact to git.
func WithVersionedExport(enabled bool) Option {
	return platform.WithVersionedExport(enabled)
}

// WithAssetsDir sets the root of uploaded assets.
func WithAssetsDir(dir string) Option {
	return platform.WithAssetsDir(dir)
}

// WithStrictPaths rejects path updates that walk through a leaf.
func WithStrictPaths(strict bool) Option {
	return platform.WithStrictPaths(strict)
}

// WithEventBuffer sets the size of the session event channel.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithRedis configures the Redis sink.
func WithRedis(address, password string, db int, prefix string) Option {
	return platform.WithRedis(address, password, db, prefix)
}

// WithSQLitePath sets the database file of the SQLite sink.
func WithSQLitePath(path string) Option {
	return platform.WithSQLitePath(path)
}

// WithAdmin enables the admin login.
func WithAdmin(password, secret string, ttl time.Duration) Option {
	return platform.WithAdmin(password, secret, ttl)
}

// WithContactEndpoint relays the contact form to endpoint.
func WithContactEndpoint(endpoint string) Option {
	return platform.WithContactEndpoint(endpoint)
}

// WithContactSender injects a custom contact relay.
func WithContactSender(s contact.Sender) Option {
	return platform.WithContactSender(s)
}

// WithForceTemp forces the data directory into the temp sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the data directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly disables writes and exports.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety toggles the temp sandbox for go run and go test.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a content Service with its defaults loaded.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open wires every component for the data directory path.
func Open(path string, opts ...Option) (*Runtime, error) {
	return platform.Open(path, opts...)
}

// Init opens only the persistence sink.
func Init(path string, opts ...Option) (core.Store, error) {
	store, _, err := platform.Init(path, opts...)
	return store, err
}

// --- Content operations ---

// SetPath returns a copy of doc with the leaf at the dotted path set to
// value. Missing intermediate mappings are created.
func SetPath(doc Document, path, value string) (Document, error) {
	return content.SetPath(doc, path, value)
}

// SaveSection returns persisted with every top-level section of partial
// replacing the one of the same name.
func SaveSection(persisted, partial Document) Document {
	return content.Merge(persisted, partial)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a folio data directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
