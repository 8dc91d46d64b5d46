package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/aretw0/folio/pkg/core"
)

// kindDirs maps asset kinds to the directories they are stored under.
var kindDirs = map[string]string{
	core.KindImage:    "images",
	core.KindSchedule: "schedules",
}

// AssetStore implements core.AssetStore on a directory tree:
// images land in {Root}/images/{folder}/, schedules in {Root}/schedules/.
type AssetStore struct {
	Root     string
	ReadOnly bool
	Logger   *slog.Logger
}

// NewAssetStore creates an AssetStore rooted at root.
func NewAssetStore(root string, logger *slog.Logger) *AssetStore {
	return &AssetStore{Root: root, Logger: logger}
}

// AssetID derives a stable ID from an asset path.
func AssetID(rel string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("folio:"+rel)).String()
}

// Put writes the asset body atomically and returns its reference.
func (a *AssetStore) Put(ctx context.Context, asset core.Asset) (core.AssetRef, error) {
	if a.ReadOnly {
		return core.AssetRef{}, core.ErrReadOnly
	}
	rel, err := assetPath(asset)
	if err != nil {
		return core.AssetRef{}, err
	}

	if asset.Body == nil {
		return core.AssetRef{}, fmt.Errorf("asset %s has no body", rel)
	}

	fullPath := filepath.Join(a.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return core.AssetRef{}, fmt.Errorf("failed to create asset directory: %w", err)
	}
	size, err := copyFileAtomic(fullPath, asset.Body, 0644)
	if err != nil {
		return core.AssetRef{}, fmt.Errorf("failed to write asset: %w", err)
	}

	if a.Logger != nil {
		a.Logger.Info("asset stored", "kind", asset.Kind, "path", rel, "bytes", size)
	}

	return core.AssetRef{
		ID:          AssetID(rel),
		Kind:        asset.Kind,
		Path:        rel,
		ContentType: asset.ContentType,
		Size:        size,
	}, nil
}

// List returns the assets whose slash-separated path matches pattern,
// e.g. "images/**" or "schedules/*.pdf".
func (a *AssetStore) List(ctx context.Context, pattern string) ([]core.AssetRef, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %s", doublestar.ErrBadPattern, pattern)
	}

	fsys := os.DirFS(a.Root)
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	refs := make([]core.AssetRef, 0, len(matches))
	for _, rel := range matches {
		if strings.HasPrefix(path.Base(rel), TempFilePrefix) {
			continue
		}
		info, err := fs.Stat(fsys, rel)
		if err != nil {
			continue
		}
		ref := core.AssetRef{
			ID:   AssetID(rel),
			Kind: kindOf(rel),
			Path: rel,
			Size: info.Size(),
		}
		if mt, err := mimetype.DetectFile(filepath.Join(a.Root, filepath.FromSlash(rel))); err == nil {
			ref.ContentType = mt.String()
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func assetPath(asset core.Asset) (string, error) {
	dir, ok := kindDirs[asset.Kind]
	if !ok {
		return "", fmt.Errorf("unknown asset kind: %q", asset.Kind)
	}

	name := path.Base(filepath.ToSlash(asset.Name))
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid asset name: %q", asset.Name)
	}

	folder := path.Clean("/" + filepath.ToSlash(asset.Folder))
	return path.Join(dir, folder, name), nil
}

func kindOf(rel string) string {
	top, _, _ := strings.Cut(rel, "/")
	for kind, dir := range kindDirs {
		if dir == top {
			return kind
		}
	}
	return ""
}

var _ core.AssetStore = (*AssetStore)(nil)
