package core_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
)

// MockStore implements core.Store in memory.
type MockStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet error
	onSet   func(key string) // runs before the write
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return v, nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.onSet != nil {
		m.onSet(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.data[key] = value
	return nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockStore) Initialize(ctx context.Context) error { return nil }

// MockExporter records exported documents.
type MockExporter struct {
	name string
	doc  content.Map
	err  error
}

func (e *MockExporter) Export(ctx context.Context, name string, doc content.Map) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.name = name
	e.doc = content.Clone(doc)
	return "/downloads/" + name, nil
}

// stringSource serves default content from a string, or fails when err is set.
type stringSource struct {
	body   string
	format content.Format
	err    error
}

func (s *stringSource) Open(ctx context.Context) (io.ReadCloser, content.Format, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), s.format, nil
}

const defaults = `{
  "hero": {"title": "Willkommen", "subtitle": "Leipzig", "cta": "Mehr erfahren"},
  "about": {"title": "Über mich", "description": "Entwickler"},
  "legal": {"impressum": "I", "datenschutz": "D"}
}`

func TestService_LoadDefaults(t *testing.T) {
	ctx := context.TODO()
	svc := core.NewService(NewMockStore(), core.WithSource(&stringSource{body: defaults, format: content.FormatJSON}))

	doc := svc.Load(ctx)
	if got := content.GetString(doc, "hero.title"); got != "Willkommen" {
		t.Errorf("expected hero.title 'Willkommen', got '%s'", got)
	}
	if got := svc.Get("legal.impressum"); got != "I" {
		t.Errorf("expected legal.impressum 'I', got '%s'", got)
	}
}

func TestService_LoadFailureStartsEmpty(t *testing.T) {
	ctx := context.TODO()

	tests := []struct {
		name string
		src  core.ContentSource
	}{
		{"No Source", nil},
		{"Open Fails", &stringSource{err: errors.New("404")}},
		{"Malformed JSON", &stringSource{body: `{"hero":`, format: content.FormatJSON}},
		{"Not An Object", &stringSource{body: `[1,2]`, format: content.FormatJSON}},
		{"YAML Sequence", &stringSource{body: "- hero\n- about\n", format: content.FormatYAML}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []core.ServiceOption
			if tt.src != nil {
				opts = append(opts, core.WithSource(tt.src))
			}
			svc := core.NewService(NewMockStore(), opts...)

			doc := svc.Load(ctx)
			if len(doc) != 0 {
				t.Errorf("expected empty document, got %v", doc)
			}
			if got := svc.Get("hero.title"); got != "" {
				t.Errorf("expected empty hero.title, got '%s'", got)
			}
		})
	}
}

func TestService_UpdateAndSave(t *testing.T) {
	ctx := context.TODO()
	store := NewMockStore()
	exporter := &MockExporter{}
	svc := core.NewService(store,
		core.WithSource(&stringSource{body: defaults, format: content.FormatJSON}),
		core.WithExporter(exporter),
	)
	svc.Load(ctx)

	if err := svc.Update(ctx, "hero.title", "Hallo"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if dirty := svc.Dirty(); len(dirty) != 1 || dirty[0] != "hero" {
		t.Errorf("expected dirty [hero], got %v", dirty)
	}

	merged, res, err := svc.Save(ctx, "hero")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if res.Artifact != "/downloads/content.json" {
		t.Errorf("unexpected artifact: %s", res.Artifact)
	}
	if got := content.GetString(merged, "hero.title"); got != "Hallo" {
		t.Errorf("expected merged hero.title 'Hallo', got '%s'", got)
	}
	// Untouched fields of the saved section come from the session.
	if got := content.GetString(merged, "hero.subtitle"); got != "Leipzig" {
		t.Errorf("expected merged hero.subtitle 'Leipzig', got '%s'", got)
	}
	// Only the saved section reaches the store.
	if _, ok := merged["about"]; ok {
		t.Error("expected 'about' not to be persisted")
	}
	if len(svc.Dirty()) != 0 {
		t.Errorf("expected no dirty sections after save, got %v", svc.Dirty())
	}
	if !content.Equal(exporter.doc, merged) {
		t.Errorf("exported document differs from merged document")
	}

	persisted, err := svc.Persisted(ctx)
	if err != nil {
		t.Fatalf("Persisted failed: %v", err)
	}
	if !content.Equal(persisted, merged) {
		t.Errorf("persisted document differs from merged document")
	}
}

func TestService_SaveSectionKeepsOtherSections(t *testing.T) {
	ctx := context.TODO()
	store := NewMockStore()
	store.data[core.ContentKey] = []byte(`{"hero":{"title":"A"},"about":{"title":"B"},"legal":{"impressum":"I"}}`)
	svc := core.NewService(store)

	partial := content.Map{"hero": content.Map{"title": content.Leaf("C"), "subtitle": content.Leaf("S")}}
	merged, _, err := svc.SaveSection(ctx, partial)
	if err != nil {
		t.Fatalf("SaveSection failed: %v", err)
	}

	want := content.Map{
		"hero":  content.Map{"title": content.Leaf("C"), "subtitle": content.Leaf("S")},
		"about": content.Map{"title": content.Leaf("B")},
		"legal": content.Map{"impressum": content.Leaf("I")},
	}
	if !content.Equal(want, merged) {
		t.Errorf("expected %v, got %v", want, merged)
	}
}

func TestService_SaveErrors(t *testing.T) {
	ctx := context.TODO()

	t.Run("Unknown Section", func(t *testing.T) {
		svc := core.NewService(NewMockStore())
		_, _, err := svc.Save(ctx, "hero")
		if !errors.Is(err, core.ErrUnknownSection) {
			t.Errorf("expected ErrUnknownSection, got %v", err)
		}
	})

	t.Run("Nothing To Save", func(t *testing.T) {
		svc := core.NewService(NewMockStore())
		_, _, err := svc.Save(ctx)
		if !errors.Is(err, core.ErrNothingToSave) {
			t.Errorf("expected ErrNothingToSave, got %v", err)
		}
	})

	t.Run("Store Failure", func(t *testing.T) {
		store := NewMockStore()
		store.failSet = errors.New("disk full")
		svc := core.NewService(store)
		_ = svc.Update(ctx, "hero.title", "x")

		if _, _, err := svc.Save(ctx); err == nil {
			t.Fatal("expected error from failing store")
		}
		if len(svc.Dirty()) != 1 {
			t.Errorf("expected section to stay dirty after failed save")
		}
	})

	t.Run("No Exporter", func(t *testing.T) {
		svc := core.NewService(NewMockStore())
		if _, err := svc.Export(ctx); !errors.Is(err, core.ErrNoExporter) {
			t.Errorf("expected ErrNoExporter, got %v", err)
		}
	})
}

func TestService_SaveExportFailure(t *testing.T) {
	ctx := context.TODO()
	store := NewMockStore()
	svc := core.NewService(store, core.WithExporter(&MockExporter{err: errors.New("disk full")}))
	_ = svc.Update(ctx, "hero.title", "Hallo")

	merged, res, err := svc.Save(ctx, "hero")
	if !errors.Is(err, core.ErrExportFailed) {
		t.Fatalf("expected ErrExportFailed, got %v", err)
	}
	if got := content.GetString(merged, "hero.title"); got != "Hallo" {
		t.Errorf("expected merged hero.title 'Hallo', got '%s'", got)
	}
	if res.Artifact != "" {
		t.Errorf("expected no artifact, got %s", res.Artifact)
	}

	persisted, _ := svc.Persisted(ctx)
	if got := content.GetString(persisted, "hero.title"); got != "Hallo" {
		t.Errorf("expected the section to be persisted, got '%s'", got)
	}
	if len(svc.Dirty()) != 0 {
		t.Errorf("expected persisted section to be clean, got %v", svc.Dirty())
	}
}

func TestService_EditDuringSaveStaysDirty(t *testing.T) {
	ctx := context.TODO()
	src := &stringSource{body: `{"hero":{"title":"A"}}`, format: content.FormatJSON}
	store := NewMockStore()
	svc := core.NewService(store, core.WithSource(src))
	svc.Load(ctx)
	_ = svc.Update(ctx, "hero.title", "B")

	var once sync.Once
	store.onSet = func(key string) {
		if key != core.ContentKey {
			return
		}
		once.Do(func() {
			if err := svc.Update(ctx, "hero.title", "C"); err != nil {
				t.Errorf("Update during save failed: %v", err)
			}
		})
	}

	if _, _, err := svc.Save(ctx, "hero"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if dirty := svc.Dirty(); len(dirty) != 1 || dirty[0] != "hero" {
		t.Errorf("expected hero to stay dirty, got %v", dirty)
	}

	persisted, _ := svc.Persisted(ctx)
	if got := content.GetString(persisted, "hero.title"); got != "B" {
		t.Errorf("expected persisted hero.title 'B', got '%s'", got)
	}

	doc := svc.Reload(ctx)
	if got := content.GetString(doc, "hero.title"); got != "C" {
		t.Errorf("expected edit made during save to survive reload, got '%s'", got)
	}
}

func TestService_MalformedPersistedReadsEmpty(t *testing.T) {
	ctx := context.TODO()
	store := NewMockStore()
	store.data[core.ContentKey] = []byte("not json")
	svc := core.NewService(store)

	doc, err := svc.Persisted(ctx)
	if err != nil {
		t.Fatalf("Persisted failed: %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("expected empty document, got %v", doc)
	}
}

func TestService_StrictPaths(t *testing.T) {
	ctx := context.TODO()
	svc := core.NewService(NewMockStore(), core.WithStrictPaths(true))
	svc.LoadFrom(strings.NewReader(`{"impressum":"flat"}`), content.FormatJSON)

	err := svc.Update(ctx, "impressum.company", "ACME")
	if !errors.Is(err, content.ErrNotMapping) {
		t.Errorf("expected ErrNotMapping, got %v", err)
	}
	if got := svc.Get("impressum"); got != "flat" {
		t.Errorf("expected document unchanged, got impressum=%q", got)
	}
}

func TestService_ReloadKeepsDirtySections(t *testing.T) {
	ctx := context.TODO()
	src := &stringSource{body: defaults, format: content.FormatJSON}
	svc := core.NewService(NewMockStore(), core.WithSource(src))
	svc.Load(ctx)

	if err := svc.Update(ctx, "hero.title", "Edited"); err != nil {
		t.Fatal(err)
	}

	src.body = `{"hero":{"title":"New Default"},"about":{"title":"New About"}}`
	doc := svc.Reload(ctx)

	if got := content.GetString(doc, "hero.title"); got != "Edited" {
		t.Errorf("expected unsaved edit to survive reload, got '%s'", got)
	}
	if got := content.GetString(doc, "about.title"); got != "New About" {
		t.Errorf("expected clean section to be reloaded, got '%s'", got)
	}
	if _, ok := doc["legal"]; ok {
		t.Error("expected 'legal' to disappear with the new defaults")
	}
}

func TestService_PageViews(t *testing.T) {
	ctx := context.TODO()
	store := NewMockStore()
	svc := core.NewService(store)

	if v, err := svc.PageViews(ctx); err != nil || v != 0 {
		t.Fatalf("expected 0 views, got %d (%v)", v, err)
	}
	if _, err := svc.RecordPageView(ctx, 3); err != nil {
		t.Fatal(err)
	}
	v, err := svc.RecordPageView(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 7 {
		t.Errorf("expected 7 views, got %d", v)
	}
	if string(store.data[core.PageViewsKey]) != "7" {
		t.Errorf("expected stored counter '7', got '%s'", store.data[core.PageViewsKey])
	}
}

func TestService_Events(t *testing.T) {
	ctx := context.TODO()
	svc := core.NewService(NewMockStore(), core.WithEventBuffer(1))
	defer svc.Close()

	_ = svc.Update(ctx, "hero.title", "A")
	_ = svc.Update(ctx, "hero.title", "B") // dropped, buffer is full

	select {
	case e := <-svc.Events():
		if e.Type != core.EventUpdate || e.Path != "hero.title" {
			t.Errorf("unexpected event: %v", e)
		}
	default:
		t.Fatal("expected an event")
	}

	select {
	case e := <-svc.Events():
		t.Errorf("expected dropped event, got %v", e)
	default:
	}
}

func TestService_State(t *testing.T) {
	svc := core.NewService(NewMockStore(), core.WithStrictPaths(true))
	_ = svc.Update(context.TODO(), "about.title", "x")

	state, ok := svc.State().(core.ServiceState)
	if !ok {
		t.Fatalf("unexpected state type %T", svc.State())
	}
	if state.PathPolicy != "strict" {
		t.Errorf("expected strict policy, got %s", state.PathPolicy)
	}
	if len(state.DirtySections) != 1 || state.DirtySections[0] != "about" {
		t.Errorf("unexpected dirty sections: %v", state.DirtySections)
	}
	if state.StoreType != "store" {
		t.Errorf("expected store type 'store', got %s", state.StoreType)
	}
}
