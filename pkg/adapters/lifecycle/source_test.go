package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 3)
	src := lifecycle.NewSource(in, core.EventSave)
	if err := src.Start(ctx); err != nil {
		t.Fatal(err)
	}

	in <- core.Event{Type: core.EventUpdate, Path: "hero.title"}
	in <- core.Event{Type: core.EventSave, Sections: []string{"hero"}}
	close(in)

	select {
	case e, ok := <-src.Events():
		if !ok {
			t.Fatal("channel closed before save event")
		}
		got, isEvent := e.(core.Event)
		if !isEvent || got.Type != core.EventSave {
			t.Errorf("expected save event, got %v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("expected channel to close with its input")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}
}
