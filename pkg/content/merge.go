package content

// Merge returns persisted with every top-level section of partial replacing
// the section of the same name.
//
// The replace is wholesale: a section present in partial is taken entirely
// from partial, nested fields of the old section do not survive. Sections
// absent from partial are preserved. Neither input is modified.
func Merge(persisted, partial Map) Map {
	out := Clone(persisted)
	for k, v := range partial {
		out[k] = cloneNode(v)
	}
	return out
}

// Pick returns a document holding only the named top-level sections of m.
// Names not present in m are skipped.
func Pick(m Map, sections ...string) Map {
	out := make(Map, len(sections))
	for _, name := range sections {
		if v, ok := m[name]; ok {
			out[name] = cloneNode(v)
		}
	}
	return out
}
