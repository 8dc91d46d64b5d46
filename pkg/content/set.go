package content

// Policy decides what SetPath does when an intermediate segment holds a leaf.
type Policy int

const (
	// Overwrite replaces the leaf with a fresh mapping. The leaf value is lost.
	Overwrite Policy = iota
	// Strict fails with ErrNotMapping and leaves the document unchanged.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	default:
		return "overwrite"
	}
}

type setConfig struct {
	policy Policy
}

// SetOption configures SetPath.
type SetOption func(*setConfig)

// WithPolicy selects the intermediate-leaf policy. Defaults to Overwrite.
func WithPolicy(p Policy) SetOption {
	return func(c *setConfig) {
		c.policy = p
	}
}

// SetPath returns a copy of doc where the leaf addressed by path holds value.
//
// Missing intermediate segments are created as empty mappings. Fields outside
// the path are carried over unchanged. doc itself is not modified.
func SetPath(doc Map, path string, value string, opts ...SetOption) (Map, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return Set(doc, p, value, opts...)
}

// Set is SetPath for a parsed path.
func Set(doc Map, p Path, value string, opts ...SetOption) (Map, error) {
	if len(p) == 0 {
		return nil, ErrInvalidPath
	}
	cfg := setConfig{policy: Overwrite}
	for _, opt := range opts {
		opt(&cfg)
	}

	root := Clone(doc)
	cur := root
	for i, seg := range p[:len(p)-1] {
		switch next := cur[seg].(type) {
		case Map:
			cur = next
		case Leaf:
			if cfg.policy == Strict {
				return nil, &PathError{Path: p, Prefix: i + 1, Err: ErrNotMapping}
			}
			fresh := Map{}
			cur[seg] = fresh
			cur = fresh
		default:
			fresh := Map{}
			cur[seg] = fresh
			cur = fresh
		}
	}
	cur[p[len(p)-1]] = Leaf(value)
	return root, nil
}
