package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath is returned for empty paths or paths with empty segments.
	ErrInvalidPath = errors.New("invalid content path")
	// ErrNotMapping is returned in strict mode when a path walks through a leaf.
	ErrNotMapping = errors.New("path segment is not a mapping")
	// ErrNotDocument is returned when decoded data is not an object at the root.
	ErrNotDocument = errors.New("content root must be an object")
)

// PathError records the failing prefix of a path operation.
type PathError struct {
	Path   Path
	Prefix int // number of segments walked before the failure
	Err    error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s at %q: %v", e.Path, strings.Join(e.Path[:e.Prefix], PathSeparator), e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
