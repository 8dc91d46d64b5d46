package content

import (
	"sort"
	"strings"
)

// Node is either a Leaf or a Map.
type Node interface {
	isNode()
}

// Leaf is a terminal string value.
type Leaf string

// Map is a mapping node. A Document is a Map at the root.
type Map map[string]Node

// Document is the root of a content tree.
type Document = Map

func (Leaf) isNode() {}
func (Map) isNode()  {}

// New returns an empty document.
func New() Map { return Map{} }

// Clone returns a deep copy of m. A nil map clones to an empty one.
func Clone(m Map) Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneNode(v)
	}
	return out
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case Map:
		return Clone(v)
	case Leaf:
		return v
	default:
		return Leaf("")
	}
}

// Equal reports whether a and b hold the same keys and values.
func Equal(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !nodeEqual(av, bv) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b Node) bool {
	switch av := a.(type) {
	case Leaf:
		bv, ok := b.(Leaf)
		return ok && av == bv
	case Map:
		bv, ok := b.(Map)
		return ok && Equal(av, bv)
	}
	return a == nil && b == nil
}

// Get returns the node addressed by path.
func Get(m Map, path string) (Node, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	return Lookup(m, p)
}

// Lookup is Get for a parsed path.
func Lookup(m Map, p Path) (Node, bool) {
	var cur Node = m
	for _, seg := range p {
		mm, ok := cur.(Map)
		if !ok {
			return nil, false
		}
		if cur, ok = mm[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the leaf at path, or "" when it is missing or a mapping.
func GetString(m Map, path string) string {
	n, ok := Get(m, path)
	if !ok {
		return ""
	}
	if l, ok := n.(Leaf); ok {
		return string(l)
	}
	return ""
}

// Section returns the top-level mapping called name, or an empty map.
func Section(m Map, name string) Map {
	if s, ok := m[name].(Map); ok {
		return s
	}
	return Map{}
}

// Sections returns the sorted top-level keys of m.
func Sections(m Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Walk calls fn for every leaf in m in sorted path order.
func Walk(m Map, fn func(p Path, value string)) {
	walk(m, nil, fn)
}

func walk(m Map, prefix Path, fn func(Path, string)) {
	for _, k := range Sections(m) {
		p := append(append(Path{}, prefix...), k)
		switch v := m[k].(type) {
		case Leaf:
			fn(p, string(v))
		case Map:
			walk(v, p, fn)
		}
	}
}

// Paths returns the dotted paths of every leaf in m, sorted.
func Paths(m Map) []string {
	var out []string
	Walk(m, func(p Path, _ string) {
		out = append(out, p.String())
	})
	return out
}

// Flatten returns a path -> value view of every leaf.
func Flatten(m Map) map[string]string {
	out := make(map[string]string)
	Walk(m, func(p Path, v string) {
		out[strings.Join(p, PathSeparator)] = v
	})
	return out
}
