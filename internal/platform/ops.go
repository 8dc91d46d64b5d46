package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/adapters/redis"
	"github.com/aretw0/folio/pkg/adapters/sqlite"
	"github.com/aretw0/folio/pkg/core"
)

// Init resolves the data directory and opens the persistence sink selected
// by the options. The uri argument is the data directory. Exports and
// assets live there whatever the adapter.
//
// It returns the initialized store and the resolved data directory.
func Init(uri string, opts ...Option) (core.Store, string, error) {
	return initStore(uri, applyOptions(opts))
}

func initStore(uri string, o *options) (core.Store, string, error) {
	dataDir := resolveDataDir(uri, o)

	if o.store != nil {
		if err := o.store.Initialize(context.Background()); err != nil {
			return nil, "", err
		}
		return o.store, dataDir, nil
	}

	var (
		store core.Store
		err   error
	)
	switch o.adapter {
	case AdapterMemory:
		store = memory.NewStore()
	case AdapterFS, "":
		store = initFS(dataDir, o)
	case AdapterRedis:
		store, err = initRedis(o)
	case AdapterSQLite:
		store, err = initSQLite(dataDir, o)
	default:
		return nil, "", fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, "", err
	}

	if err := store.Initialize(context.Background()); err != nil {
		if c, ok := store.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		return nil, "", err
	}

	if o.logger != nil {
		o.logger.Debug("store ready", "adapter", o.adapter, "data_dir", dataDir)
	}
	return store, dataDir, nil
}

const defaultRedisAddress = "localhost:6379"

// resolveDataDir applies the dev sandbox to the user supplied directory.
func resolveDataDir(path string, o *options) string {
	isReadOnly := o.flag("read_only")
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Bypass Safety if:
	// 1. ReadOnly is active (inherently safe)
	// 2. User explicitly disabled DevSafety
	bypassSafety := isReadOnly || !devSafety

	useTemp := o.flag("temp_dir") || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	return resolved
}

func initFS(dataDir string, o *options) *fs.Store {
	handler, _ := o.config["watcher_error_handler"].(func(error))
	return fs.NewStore(fs.Config{
		Path:         dataDir,
		SystemDir:    o.str("system_dir"),
		MustExist:    o.flag("must_exist"),
		ReadOnly:     o.flag("read_only"),
		Logger:       o.logger,
		ErrorHandler: handler,
	})
}

func initRedis(o *options) (*redis.Store, error) {
	address := o.str("redis_address")
	if address == "" {
		address = defaultRedisAddress
	}
	db, _ := o.config["redis_db"].(int)
	return redis.NewStore(redis.Config{
		Address:  address,
		Password: o.str("redis_password"),
		DB:       db,
		Prefix:   o.str("redis_prefix"),
		Logger:   o.logger,
	})
}

func initSQLite(dataDir string, o *options) (*sqlite.Store, error) {
	path := o.str("sqlite_path")
	if path == "" {
		systemDir := o.str("system_dir")
		if systemDir == "" {
			systemDir = ".folio"
		}
		if err := os.MkdirAll(filepath.Join(dataDir, systemDir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create system directory: %w", err)
		}
		path = filepath.Join(dataDir, systemDir, "folio.db")
	}
	return sqlite.Open(path, o.logger)
}
