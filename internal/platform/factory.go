package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/auth"
	"github.com/aretw0/folio/pkg/contact"
	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/upload"
)

// New creates a content Service with its defaults loaded.
//
//	svc, err := folio.New("./site", folio.WithDefaults("content.yaml"))
func New(uri string, opts ...Option) (*core.Service, error) {
	rt, err := Open(uri, opts...)
	if err != nil {
		return nil, err
	}
	return rt.Service, nil
}

// Open wires every component of folio for the data directory uri.
func Open(uri string, opts ...Option) (*Runtime, error) {
	o := applyOptions(opts)

	store, dataDir, err := initStore(uri, o)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Store:   store,
		DataDir: dataDir,
		logger:  o.logger,
	}
	if c, ok := store.(closer); ok {
		rt.closers = append(rt.closers, c)
	}

	svcOpts := []core.ServiceOption{
		core.WithStrictPaths(o.flag("strict_paths")),
	}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithLogger(o.logger))
	}
	if size, ok := o.config["event_buffer"].(int); ok && size > 0 {
		svcOpts = append(svcOpts, core.WithEventBuffer(size))
	}
	if name := o.str("export_name"); name != "" {
		svcOpts = append(svcOpts, core.WithExportName(name))
	}

	// Exporter
	if !o.flag("read_only") {
		exportDir := o.str("export_dir")
		if exportDir == "" {
			exportDir = dataDir
		}
		format, _ := o.config["export_format"].(content.Format)
		exporter := fs.NewExporter(fs.ExporterConfig{
			Dir:       exportDir,
			Format:    format,
			Versioned: o.flag("versioned_export"),
			Logger:    o.logger,
		})
		if err := exporter.Initialize(context.Background()); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("failed to prepare exports: %w", err)
		}
		rt.Exporter = exporter
		svcOpts = append(svcOpts, core.WithExporter(exporter))
	}

	// Default content
	if path := o.str("defaults"); path != "" {
		handler, _ := o.config["watcher_error_handler"].(func(error))
		rt.Source = fs.NewSource(path, fs.Config{Logger: o.logger, ErrorHandler: handler})
		svcOpts = append(svcOpts, core.WithSource(rt.Source))
	}

	rt.Service = core.NewService(store, svcOpts...)
	rt.Service.Load(context.Background())

	// Assets and uploads
	assetsDir := o.str("assets_dir")
	if assetsDir == "" {
		assetsDir = filepath.Join(dataDir, "assets")
	}
	assets := fs.NewAssetStore(assetsDir, o.logger)
	assets.ReadOnly = o.flag("read_only")
	rt.Assets = assets
	rt.Uploads = upload.New(assets, o.logger)

	// Admin login
	if password := o.str("admin_password"); password != "" {
		ttl, _ := o.config["admin_ttl"].(time.Duration)
		rt.Auth, err = auth.NewManager(store, auth.Config{
			Password: password,
			Secret:   o.str("admin_secret"),
			TTL:      ttl,
			Logger:   o.logger,
		})
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
	}

	// Contact relay
	switch {
	case o.sender != nil:
		rt.Contact = o.sender
	case o.str("contact_endpoint") != "":
		rt.Contact = contact.NewHTTPSender(o.str("contact_endpoint"))
	}

	return rt, nil
}
