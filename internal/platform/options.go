package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/contact"
	"github.com/aretw0/folio/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = "memory"
	AdapterFS     = "fs"
	AdapterRedis  = "redis"
	AdapterSQLite = "sqlite"
)

// options holds the internal configuration for folio.
type options struct {
	store   core.Store
	sender  contact.Sender
	logger  *slog.Logger
	adapter string
	config  map[string]interface{}
}

// Option defines a functional option for configuring folio.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]interface{}),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom persistence sink. The adapter setting is ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the persistence sink by name: "fs" (default),
// "memory", "redis" or "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory of the fs adapter (default ".folio").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithDefaults points at the default content file (JSON or YAML).
func WithDefaults(path string) Option {
	return func(o *options) {
		o.config["defaults"] = path
	}
}

// WithExportDir sets where export artifacts are written.
// Defaults to the data directory.
func WithExportDir(dir string) Option {
	return func(o *options) {
		o.config["export_dir"] = dir
	}
}

// WithExportFormat selects the artifact format (json or yaml).
func WithExportFormat(f content.Format) Option {
	return func(o *options) {
		o.config["export_format"] = f
	}
}

// WithExportName overrides the artifact name (default "content.json").
func WithExportName(name string) Option {
	return func(o *options) {
		o.config["export_name"] = name
	}
}

// WithVersionedExport commits every artifact to a git repository in the
// export directory.
func WithVersionedExport(enabled bool) Option {
	return func(o *options) {
		o.config["versioned_export"] = enabled
	}
}

// WithAssetsDir sets the root of uploaded assets. Defaults to {data}/assets.
func WithAssetsDir(dir string) Option {
	return func(o *options) {
		o.config["assets_dir"] = dir
	}
}

// WithStrictPaths makes Update fail instead of replacing a leaf that sits
// in the middle of a path.
func WithStrictPaths(strict bool) Option {
	return func(o *options) {
		o.config["strict_paths"] = strict
	}
}

// WithEventBuffer sets the size of the session event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithRedis configures the redis adapter.
func WithRedis(address, password string, db int, prefix string) Option {
	return func(o *options) {
		o.config["redis_address"] = address
		o.config["redis_password"] = password
		o.config["redis_db"] = db
		o.config["redis_prefix"] = prefix
	}
}

// WithSQLitePath sets the database file of the sqlite adapter.
// Defaults to {data}/{system_dir}/folio.db.
func WithSQLitePath(path string) Option {
	return func(o *options) {
		o.config["sqlite_path"] = path
	}
}

// WithAdmin enables admin login with password. An empty secret makes
// tokens valid for the lifetime of the process only.
func WithAdmin(password, secret string, ttl time.Duration) Option {
	return func(o *options) {
		o.config["admin_password"] = password
		o.config["admin_secret"] = secret
		o.config["admin_ttl"] = ttl
	}
}

// WithContactEndpoint relays contact messages to endpoint.
func WithContactEndpoint(endpoint string) Option {
	return func(o *options) {
		o.config["contact_endpoint"] = endpoint
	}
}

// WithContactSender injects a custom contact sender.
func WithContactSender(s contact.Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithForceTemp forces the use of a temporary data directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Writes to the fs store and asset store return ErrReadOnly.
// 2. Directory creation is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via `go run`.
// By default (true), folio forces a temporary directory to prevent accidental data loss.
// Setting this to false allows operating on the real filesystem even during `go run`.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors of the defaults watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

func (o *options) str(key string) string {
	v, _ := o.config[key].(string)
	return v
}

func (o *options) flag(key string) bool {
	v, _ := o.config[key].(bool)
	return v
}
