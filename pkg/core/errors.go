package core

import "errors"

// Common errors.
var (
	ErrNotFound       = errors.New("key not found")
	ErrReadOnly       = errors.New("store is in read-only mode")
	ErrNothingToSave  = errors.New("no sections to save")
	ErrUnknownSection = errors.New("unknown section")
	ErrNoExporter     = errors.New("no exporter configured")
	ErrExportFailed   = errors.New("content saved but export failed")
)
