package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

type watchWorker struct {
	*worker.BaseWorker
	source    *Source
	target    string
	changes   chan<- struct{}
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(source *Source, changes chan<- struct{}) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("content-watcher"),
		source:     source,
		target:     source.absPath(),
		changes:    changes,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Editors replace files by rename, so the directory is watched, not the file.
	if err := watcher.Add(filepath.Dir(w.target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.target), err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.source.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"target":            w.target,
		}
	})
}

func (w *watchWorker) logger() *slog.Logger {
	return w.source.config.Logger
}

// relevant reports whether event touches the watched file in a way that
// changes its content.
func (w *watchWorker) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *watchWorker) notify(ctx context.Context) {
	w.debouncer.add(func() {
		if ctx.Err() != nil {
			return
		}
		w.source.recordChange()
		select {
		case w.changes <- struct{}{}:
		default:
			// a change is already pending
		}
	})
}

func (w *watchWorker) handleWatcherError(err error) {
	if l := w.logger(); l != nil {
		l.Error("fsnotify error", "error", err)
	}
	if w.source.config.ErrorHandler != nil {
		w.source.config.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if l := w.logger(); l != nil {
				if l.Enabled(ctx, slog.LevelDebug) {
					l.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
				} else {
					l.Error("watcher panic", "error", err)
				}
			}
		}
	}()
	defer w.source.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Let a pending notification finish before reporting the worker as stopped.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if l := w.logger(); l != nil {
				l.Debug("event received", "name", event.Name, "op", event.Op.String())
			}
			if w.relevant(event) {
				w.notify(ctx)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
