package platform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/auth"
	"github.com/aretw0/folio/pkg/contact"
	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/upload"
)

type closer interface {
	Close() error
}

// Runtime bundles the wired components of a folio instance.
type Runtime struct {
	Service  *core.Service
	Store    core.Store
	Exporter *fs.Exporter   // nil in read-only mode
	Source   *fs.Source     // nil without a defaults file
	Assets   *fs.AssetStore
	Uploads  *upload.Uploader
	Auth     *auth.Manager  // nil without an admin password
	Contact  contact.Sender // nil without a contact endpoint
	DataDir  string

	logger  *slog.Logger
	closers []closer
}

// Watch reloads the default content whenever its file changes, until ctx
// is cancelled. Unsaved sections survive the reload.
func (r *Runtime) Watch(ctx context.Context) error {
	if r.Source == nil {
		return errors.New("no default content file configured")
	}
	changes, err := r.Source.Watch(ctx)
	if err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for range changes {
			doc := r.Service.Reload(ctx)
			if r.logger != nil {
				r.logger.Info("default content changed", "sections", content.Sections(doc))
			}
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		if r.logger != nil {
			r.logger.Error("content reload failed", "error", err)
		}
	}))
	return nil
}

// Component is a named part of the runtime that reports its state.
type Component interface {
	introspection.Component
	introspection.Introspectable
}

// Components returns the introspectable parts of the runtime.
func (r *Runtime) Components() []Component {
	candidates := []any{r.Service, r.Store}
	if r.Source != nil {
		candidates = append(candidates, r.Source)
	}

	var out []Component
	for _, c := range candidates {
		if comp, ok := c.(Component); ok {
			out = append(out, comp)
		}
	}
	return out
}

// Close releases the store and the session event channel.
func (r *Runtime) Close() error {
	var errs []error
	if r.Service != nil {
		errs = append(errs, r.Service.Close())
	}
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
