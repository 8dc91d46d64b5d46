package fs_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestAssetStore_PutAndList(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := fs.NewAssetStore(root, nil)

	ref, err := store.Put(ctx, core.Asset{
		Kind:        core.KindImage,
		Folder:      "projects",
		Name:        "shop.png",
		ContentType: "image/png",
		Body:        bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if ref.Path != "images/projects/shop.png" {
		t.Errorf("unexpected path: %s", ref.Path)
	}
	if ref.Size != int64(len(pngHeader)) {
		t.Errorf("unexpected size: %d", ref.Size)
	}
	if ref.ID != fs.AssetID("images/projects/shop.png") {
		t.Errorf("unexpected ID: %s", ref.ID)
	}
	if _, err := os.Stat(filepath.Join(root, "images", "projects", "shop.png")); err != nil {
		t.Fatalf("asset not on disk: %v", err)
	}

	_, err = store.Put(ctx, core.Asset{
		Kind: core.KindSchedule,
		Name: "2024-W18.pdf",
		Body: bytes.NewReader([]byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")),
	})
	if err != nil {
		t.Fatalf("Put schedule failed: %v", err)
	}

	images, err := store.List(ctx, "images/**")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(images) != 1 || images[0].Kind != core.KindImage || images[0].ContentType != "image/png" {
		t.Errorf("unexpected images: %+v", images)
	}

	schedules, err := store.List(ctx, "schedules/*.pdf")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(schedules) != 1 || schedules[0].ContentType != "application/pdf" {
		t.Errorf("unexpected schedules: %+v", schedules)
	}
}

func TestAssetStore_ContainsTraversal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := fs.NewAssetStore(root, nil)

	ref, err := store.Put(ctx, core.Asset{
		Kind:   core.KindImage,
		Folder: "../../etc",
		Name:   "../passwd.png",
		Body:   bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if ref.Path != "images/etc/passwd.png" {
		t.Errorf("expected path to stay below root, got %s", ref.Path)
	}
}

func TestAssetStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := fs.NewAssetStore(t.TempDir(), nil)

	if _, err := store.Put(ctx, core.Asset{Kind: "video", Name: "a.mp4", Body: bytes.NewReader(nil)}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := store.List(ctx, "images/["); !errors.Is(err, doublestar.ErrBadPattern) {
		t.Errorf("expected ErrBadPattern, got %v", err)
	}

	store.ReadOnly = true
	if _, err := store.Put(ctx, core.Asset{Kind: core.KindImage, Name: "a.png", Body: bytes.NewReader(pngHeader)}); err != core.ErrReadOnly {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}
