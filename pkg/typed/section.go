// Package typed provides type-safe views over sections of a content document.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/folio/pkg/content"
)

// Decode converts the section name of doc into T. A missing section
// decodes to the zero value.
func Decode[T any](doc content.Map, name string) (T, error) {
	var out T
	section, ok := doc[name].(content.Map)
	if !ok {
		return out, nil
	}

	data, err := json.Marshal(content.ToAny(section))
	if err != nil {
		return out, fmt.Errorf("section %s marshal failed: %w", name, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unmarshal section %s to target type failed: %w", name, err)
	}
	return out, nil
}

// Encode converts value into a section Map. Non-string scalars become
// their textual form.
func Encode[T any](value T) (content.Map, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed section: %w", err)
	}
	m, err := content.Unmarshal(data, content.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to convert typed section to map: %w", err)
	}
	return m, nil
}

// Put returns a copy of doc with section name replaced by value.
func Put[T any](doc content.Map, name string, value T) (content.Map, error) {
	section, err := Encode(value)
	if err != nil {
		return nil, err
	}
	out := content.Clone(doc)
	out[name] = section
	return out, nil
}
