package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/folio/pkg/content"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
)

// ExporterConfig configures the export artifact writer.
type ExporterConfig struct {
	Dir       string
	Format    content.Format
	Versioned bool // commit every artifact to a git repository in Dir
	Logger    *slog.Logger
}

// Exporter writes export artifacts as files, optionally committing them.
type Exporter struct {
	dir    string
	format content.Format
	git    *git.Client
	logger *slog.Logger
}

// NewExporter creates an Exporter writing into cfg.Dir.
func NewExporter(cfg ExporterConfig) *Exporter {
	e := &Exporter{
		dir:    cfg.Dir,
		format: cfg.Format,
		logger: cfg.Logger,
	}
	if e.format == "" {
		e.format = content.FormatJSON
	}
	if cfg.Versioned {
		e.git = git.NewClient(cfg.Dir, ".folio.lock", cfg.Logger)
	}
	return e
}

// Initialize creates the export directory and, when versioned, the git repository.
func (e *Exporter) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if e.git == nil {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if !e.git.IsRepo() {
		if err := e.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
	}
	return nil
}

// Export writes doc to {Dir}/{name}. The extension of name follows the
// configured format.
func (e *Exporter) Export(ctx context.Context, name string, doc content.Map) (string, error) {
	filename := artifactName(name, e.format)
	if filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid artifact name: %s", name)
	}

	data, err := content.Encode(doc, e.format)
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	fullPath := filepath.Join(e.dir, filename)
	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	if e.git != nil {
		if err := e.commit(filename); err != nil {
			return fullPath, err
		}
	}

	if e.logger != nil {
		e.logger.Debug("artifact exported", "path", fullPath, "format", e.format)
	}
	return fullPath, nil
}

func (e *Exporter) commit(filename string) error {
	unlock, err := e.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := e.git.Add(filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	msg := git.FormatMessage(git.CommitTypeDocs, "content", "export "+filename, "")
	if err := e.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

func artifactName(name string, f content.Format) string {
	if name == "" {
		name = core.DefaultExportName
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + f.Ext()
}

var _ core.Exporter = (*Exporter)(nil)
