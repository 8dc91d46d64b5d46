package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/content"
)

const defaultEventBuffer = 100

// Service owns one editing session: the in-memory document, its unsaved
// sections and the persistence sink it saves into.
type Service struct {
	mu     sync.RWMutex
	saveMu sync.Mutex

	store      Store
	exporter   Exporter
	source     ContentSource
	logger     *slog.Logger
	policy     content.Policy
	exportName string

	doc   content.Map
	dirty map[string]uint64 // section -> edit generation
	gen   uint64

	eventBufferSize int
	events          chan Event
	closeOnce       sync.Once
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithExporter sets the sink for export artifacts written on save.
func WithExporter(e Exporter) ServiceOption {
	return func(s *Service) { s.exporter = e }
}

// WithSource sets where default content is loaded from.
func WithSource(src ContentSource) ServiceOption {
	return func(s *Service) { s.source = src }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictPaths makes Update fail instead of overwriting a leaf that sits
// in the middle of a path.
func WithStrictPaths(strict bool) ServiceOption {
	return func(s *Service) {
		if strict {
			s.policy = content.Strict
		} else {
			s.policy = content.Overwrite
		}
	}
}

// WithExportName sets the artifact name. Defaults to DefaultExportName.
func WithExportName(name string) ServiceOption {
	return func(s *Service) {
		if name != "" {
			s.exportName = name
		}
	}
}

// WithEventBuffer sets the size of the event channel. Zero means default (100).
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service on top of store. The session document
// starts empty until Load is called.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:           store,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		exportName:      DefaultExportName,
		doc:             content.New(),
		dirty:           make(map[string]uint64),
		eventBufferSize: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make(chan Event, s.eventBufferSize)
	return s
}

// Store returns the persistence sink.
func (s *Service) Store() Store { return s.store }

// ExportName returns the configured artifact name.
func (s *Service) ExportName() string { return s.exportName }

// Load replaces the session document with the default content.
// A missing source or a source that fails to open or parse yields an empty
// document; the failure is logged, never returned.
func (s *Service) Load(ctx context.Context) content.Map {
	doc := s.loadDefaults(ctx)

	s.mu.Lock()
	s.doc = doc
	s.dirty = make(map[string]uint64)
	s.mu.Unlock()

	s.emit(Event{Type: EventReload, Sections: content.Sections(doc)})
	return content.Clone(doc)
}

// LoadFrom is Load with an explicit reader.
func (s *Service) LoadFrom(r io.Reader, format content.Format) content.Map {
	doc, err := content.Decode(r, format)
	if err != nil {
		s.logger.Debug("no usable default content, starting empty", "error", err)
		doc = content.New()
	}

	s.mu.Lock()
	s.doc = doc
	s.dirty = make(map[string]uint64)
	s.mu.Unlock()

	s.emit(Event{Type: EventReload, Sections: content.Sections(doc)})
	return content.Clone(doc)
}

// Reload re-reads the default content while keeping unsaved sections.
// Sections edited since the last save are kept from the session; every
// other section is taken from the fresh defaults.
func (s *Service) Reload(ctx context.Context) content.Map {
	fresh := s.loadDefaults(ctx)

	s.mu.Lock()
	pending := content.Pick(s.doc, s.dirtySectionsLocked()...)
	s.doc = content.Merge(fresh, pending)
	doc := content.Clone(s.doc)
	s.mu.Unlock()

	s.logger.Debug("default content reloaded", "kept_sections", content.Sections(pending))
	s.emit(Event{Type: EventReload, Sections: content.Sections(doc)})
	return doc
}

func (s *Service) loadDefaults(ctx context.Context) content.Map {
	if s.source == nil {
		return content.New()
	}
	rc, format, err := s.source.Open(ctx)
	if err != nil {
		s.logger.Debug("default content unavailable, starting empty", "error", err)
		return content.New()
	}
	defer rc.Close()

	doc, err := content.Decode(rc, format)
	if err != nil {
		s.logger.Debug("default content malformed, starting empty", "error", err)
		return content.New()
	}
	return doc
}

// Document returns a copy of the session document.
func (s *Service) Document() content.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return content.Clone(s.doc)
}

// Get returns the session leaf at path, or "".
func (s *Service) Get(path string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return content.GetString(s.doc, path)
}

// Update applies a path update to the session document.
func (s *Service) Update(ctx context.Context, path string, value string) error {
	p, err := content.ParsePath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	doc, err := content.Set(s.doc, p, value, content.WithPolicy(s.policy))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = doc
	s.gen++
	s.dirty[p.Section()] = s.gen
	s.mu.Unlock()

	s.emit(Event{Type: EventUpdate, Path: p.String()})
	return nil
}

// Dirty returns the sorted sections edited since they were last saved.
func (s *Service) Dirty() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirtySectionsLocked()
}

func (s *Service) dirtySectionsLocked() []string {
	out := make([]string, 0, len(s.dirty))
	for k := range s.dirty {
		out = append(out, k)
	}
	return sortedCopy(out)
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// Save persists the named top-level sections of the session document.
// Without names, every section is saved.
//
// A section stays dirty when it was edited again while the save was
// running. When only the export fails, the sections are persisted and no
// longer dirty, and the error wraps ErrExportFailed.
func (s *Service) Save(ctx context.Context, sections ...string) (content.Map, SaveResult, error) {
	s.mu.RLock()
	if len(sections) == 0 {
		sections = content.Sections(s.doc)
	}
	for _, name := range sections {
		if _, ok := s.doc[name]; !ok {
			s.mu.RUnlock()
			return nil, SaveResult{}, fmt.Errorf("%w: %s", ErrUnknownSection, name)
		}
	}
	partial := content.Pick(s.doc, sections...)
	picked := make(map[string]uint64, len(sections))
	for _, name := range sections {
		picked[name] = s.dirty[name]
	}
	s.mu.RUnlock()

	merged, res, err := s.SaveSection(ctx, partial)
	if err != nil && !errors.Is(err, ErrExportFailed) {
		return nil, res, err
	}

	s.mu.Lock()
	for _, name := range res.Sections {
		if gen, ok := s.dirty[name]; ok && gen == picked[name] {
			delete(s.dirty, name)
		}
	}
	s.mu.Unlock()

	return merged, res, err
}

// SaveSection merges partial into the persisted document, writes the result
// to the store and exports it. Sections of partial replace persisted
// sections wholesale. If the export fails after the store write, the merged
// document is returned with an error wrapping ErrExportFailed.
func (s *Service) SaveSection(ctx context.Context, partial content.Map) (content.Map, SaveResult, error) {
	if len(partial) == 0 {
		return nil, SaveResult{}, ErrNothingToSave
	}

	// Saves are read-modify-write on ContentKey.
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	persisted, err := s.Persisted(ctx)
	if err != nil {
		return nil, SaveResult{}, err
	}

	merged := content.Merge(persisted, partial)
	data, err := content.Encode(merged, content.FormatJSON)
	if err != nil {
		return nil, SaveResult{}, fmt.Errorf("failed to encode content: %w", err)
	}
	if err := s.store.Set(ctx, ContentKey, data); err != nil {
		return nil, SaveResult{}, fmt.Errorf("failed to persist content: %w", err)
	}

	res := SaveResult{Sections: content.Sections(partial)}
	if s.exporter != nil {
		artifact, err := s.exporter.Export(ctx, s.exportName, merged)
		if err != nil {
			s.logger.Error("content saved but export failed", "sections", res.Sections, "error", err)
			s.emit(Event{Type: EventSave, Sections: res.Sections})
			return merged, res, fmt.Errorf("%w: %w", ErrExportFailed, err)
		}
		res.Artifact = artifact
	}

	s.logger.Info("content saved", "sections", res.Sections, "artifact", res.Artifact)
	s.emit(Event{Type: EventSave, Sections: res.Sections})
	return merged, res, nil
}

// Persisted returns the document currently held by the store.
// A missing or malformed document reads as empty.
func (s *Service) Persisted(ctx context.Context) (content.Map, error) {
	data, err := s.store.Get(ctx, ContentKey)
	if errors.Is(err, ErrNotFound) {
		return content.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted content: %w", err)
	}

	doc, err := content.Unmarshal(data, content.FormatJSON)
	if err != nil {
		s.logger.Warn("persisted content is malformed, treating as empty", "error", err)
		return content.New(), nil
	}
	return doc, nil
}

// Export offers the persisted document as an artifact without saving.
func (s *Service) Export(ctx context.Context) (string, error) {
	if s.exporter == nil {
		return "", ErrNoExporter
	}
	doc, err := s.Persisted(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(ctx, s.exportName, doc)
}

// RecordPageView adds n to the page-view counter and returns the new total.
func (s *Service) RecordPageView(ctx context.Context, n int64) (int64, error) {
	if c, ok := s.store.(Counter); ok {
		views, err := c.Incr(ctx, PageViewsKey, n)
		if err != nil {
			return 0, fmt.Errorf("failed to persist page views: %w", err)
		}
		return views, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	views, err := s.pageViews(ctx)
	if err != nil {
		return 0, err
	}
	views += n
	if err := s.store.Set(ctx, PageViewsKey, []byte(strconv.FormatInt(views, 10))); err != nil {
		return 0, fmt.Errorf("failed to persist page views: %w", err)
	}
	return views, nil
}

// PageViews returns the page-view counter.
func (s *Service) PageViews(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageViews(ctx)
}

func (s *Service) pageViews(ctx context.Context) (int64, error) {
	data, err := s.store.Get(ctx, PageViewsKey)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read page views: %w", err)
	}
	views, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		s.logger.Warn("page view counter is malformed, restarting at zero", "value", string(data))
		return 0, nil
	}
	return views, nil
}

// Events returns the channel of session events.
// Events are dropped when the buffer is full.
func (s *Service) Events() <-chan Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// Close closes the event channel.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		close(s.events)
		s.events = nil
	})
	return nil
}

func (s *Service) emit(e Event) {
	e.Timestamp = time.Now().Unix()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.events == nil {
		return
	}
	select {
	case s.events <- e:
	default:
		s.logger.Debug("event buffer full, dropping event", "event", e.String())
	}
}
