// Package upload validates image and schedule uploads before they reach
// the asset store.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aretw0/folio/pkg/core"
)

var (
	// ErrNoFile is returned when the request carries no file.
	ErrNoFile = errors.New("no file selected")
	// ErrInvalidType is returned when the content does not match the upload kind.
	ErrInvalidType = errors.New("invalid file type")
	// ErrMissingWeek is returned for schedules without a week.
	ErrMissingWeek = errors.New("week is required")
	// ErrTooLarge is returned when the body exceeds MaxSize.
	ErrTooLarge = errors.New("file too large")
)

// DefaultMaxSize bounds the body of a single upload.
const DefaultMaxSize = 10 << 20

var weekPattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z_-]*$`)

// User-facing status texts.
const (
	ImageStoredText    = "Bild erfolgreich hochgeladen!"
	ScheduleStoredText = "Stundenplan erfolgreich hochgeladen!"
)

// Request is a single uploaded file.
type Request struct {
	Filename string
	Folder   string // images only
	Week     string // schedules only, e.g. "2024-W18"
	Body     io.Reader
}

// Status reports a stored upload.
type Status struct {
	Message string        `json:"message"`
	Asset   core.AssetRef `json:"asset"`
}

// Uploader validates uploads and hands them to an asset store.
type Uploader struct {
	Assets  core.AssetStore
	MaxSize int64
	Logger  *slog.Logger
}

// New creates an Uploader for assets.
func New(assets core.AssetStore, logger *slog.Logger) *Uploader {
	return &Uploader{Assets: assets, MaxSize: DefaultMaxSize, Logger: logger}
}

// Image stores an image under its folder. The content must sniff as image/*.
func (u *Uploader) Image(ctx context.Context, req Request) (Status, error) {
	data, mt, err := u.read(req)
	if err != nil {
		return Status{}, err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return Status{}, fmt.Errorf("%w: %s is not an image", ErrInvalidType, mt.String())
	}

	name := req.Filename
	if name == "" || path.Ext(name) == "" {
		name = strings.TrimSuffix(name, path.Ext(name)) + mt.Extension()
	}

	ref, err := u.Assets.Put(ctx, core.Asset{
		Kind:        core.KindImage,
		Folder:      req.Folder,
		Name:        name,
		ContentType: mt.String(),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return Status{}, fmt.Errorf("failed to store image: %w", err)
	}
	u.log("image uploaded", ref)
	return Status{Message: ImageStoredText, Asset: ref}, nil
}

// Schedule stores a weekly schedule as schedules/<week>.pdf. The content
// must sniff as application/pdf.
func (u *Uploader) Schedule(ctx context.Context, req Request) (Status, error) {
	week := strings.TrimSpace(req.Week)
	if week == "" {
		return Status{}, ErrMissingWeek
	}
	if !weekPattern.MatchString(week) {
		return Status{}, fmt.Errorf("%w: invalid week %q", ErrMissingWeek, req.Week)
	}

	data, mt, err := u.read(req)
	if err != nil {
		return Status{}, err
	}
	if !mt.Is("application/pdf") {
		return Status{}, fmt.Errorf("%w: %s is not a PDF", ErrInvalidType, mt.String())
	}

	ref, err := u.Assets.Put(ctx, core.Asset{
		Kind:        core.KindSchedule,
		Name:        week + ".pdf",
		ContentType: "application/pdf",
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return Status{}, fmt.Errorf("failed to store schedule: %w", err)
	}
	u.log("schedule uploaded", ref)
	return Status{Message: ScheduleStoredText, Asset: ref}, nil
}

// read buffers the body and sniffs its type.
func (u *Uploader) read(req Request) ([]byte, *mimetype.MIME, error) {
	if req.Body == nil {
		return nil, nil, ErrNoFile
	}
	limit := u.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(req.Body, limit+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, ErrNoFile
	}
	if int64(len(data)) > limit {
		return nil, nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, mimetype.Detect(data), nil
}

func (u *Uploader) log(msg string, ref core.AssetRef) {
	if u.Logger != nil {
		u.Logger.Info(msg, "id", ref.ID, "path", ref.Path, "bytes", ref.Size)
	}
}
