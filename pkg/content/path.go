package content

import (
	"fmt"
	"strings"
)

// PathSeparator separates the segments of a content path.
const PathSeparator = "."

// Path is a parsed dotted path. Each element is one key.
type Path []string

// ParsePath splits a dotted path into its segments.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segments := strings.Split(s, PathSeparator)
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, s)
		}
	}
	return Path(segments), nil
}

// MustParsePath is like ParsePath but panics on error. Intended for constants.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// Section returns the top-level key the path belongs to.
func (p Path) Section() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// HasPrefix reports whether q is a prefix of p (segment-wise).
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
