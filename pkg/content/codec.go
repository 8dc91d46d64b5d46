package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format for documents.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromExt maps a file extension to a Format. Unknown extensions map to JSON.
func FormatFromExt(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Ext returns the canonical file extension of the format.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Encode serializes m. JSON output is indented with two spaces.
func Encode(m Map, f Format) ([]byte, error) {
	if m == nil {
		m = Map{}
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(m)
	default:
		return json.MarshalIndent(m, "", "  ")
	}
}

// Decode parses a document from r.
func Decode(r io.Reader, f Format) (Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, f)
}

// Unmarshal parses a document from data.
func Unmarshal(data []byte, f Format) (Map, error) {
	var raw any
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	}
	return rootMap(raw)
}

// rootMap converts a decoded root value. Only mappings are documents.
func rootMap(raw any) (Map, error) {
	switch raw.(type) {
	case map[string]any, map[any]any:
		return FromAny(raw).(Map), nil
	}
	return nil, ErrNotDocument
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Map) UnmarshalJSON(data []byte) error {
	doc, err := Unmarshal(data, FormatJSON)
	if err != nil {
		return err
	}
	*m = doc
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	doc, err := rootMap(raw)
	if err != nil {
		return err
	}
	*m = doc
	return nil
}

// FromAny converts decoded JSON/YAML values into nodes.
// Scalars become leaves, arrays become mappings keyed by index and a nil
// root becomes an empty leaf.
func FromAny(v any) Node {
	switch t := v.(type) {
	case Node:
		return cloneNode(t)
	case map[string]any:
		m := make(Map, len(t))
		for k, val := range t {
			m[k] = FromAny(val)
		}
		return m
	case map[any]any:
		m := make(Map, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = FromAny(val)
		}
		return m
	case []any:
		m := make(Map, len(t))
		for i, val := range t {
			m[strconv.Itoa(i)] = FromAny(val)
		}
		return m
	case string:
		return Leaf(t)
	case json.Number:
		return Leaf(t.String())
	case float64:
		return Leaf(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return Leaf(strconv.Itoa(t))
	case int64:
		return Leaf(strconv.FormatInt(t, 10))
	case bool:
		return Leaf(strconv.FormatBool(t))
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return Leaf(t.Format(time.DateOnly))
		}
		return Leaf(t.Format(time.RFC3339))
	case nil:
		return Leaf("")
	default:
		return Leaf(fmt.Sprint(t))
	}
}

// ToAny converts a node into plain maps and strings.
func ToAny(n Node) any {
	switch t := n.(type) {
	case Map:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = ToAny(v)
		}
		return out
	case Leaf:
		return string(t)
	}
	return nil
}
