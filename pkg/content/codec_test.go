package content_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/content"
)

func sampleDocument() content.Map {
	return content.Map{
		"hero": content.Map{
			"title":    content.Leaf("Willkommen"),
			"subtitle": content.Leaf("Webentwicklung aus Leipzig"),
			"cta":      content.Leaf("Mehr erfahren"),
		},
		"personalInfo": content.Map{
			"name": content.Leaf("Alex"),
			"address": content.Map{
				"street": content.Leaf("Main St"),
				"city":   content.Leaf("Leipzig"),
			},
		},
		"datenschutz": content.Map{"lastUpdated": content.Leaf("2024-05-01")},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []content.Format{content.FormatJSON, content.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			doc := sampleDocument()

			data, err := content.Encode(doc, f)
			require.NoError(t, err)

			parsed, err := content.Unmarshal(data, f)
			require.NoError(t, err)

			if diff := cmp.Diff(doc, parsed); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_JSONIndent(t *testing.T) {
	data, err := content.Encode(content.Map{"hero": content.Map{"title": content.Leaf("A")}}, content.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"hero\": {\n    \"title\": \"A\"\n  }\n}", string(data))
}

func TestMap_UnmarshalJSON(t *testing.T) {
	var doc content.Map
	err := json.Unmarshal([]byte(`{"hero":{"title":"A","order":3,"draft":false},"tags":["go","web"],"empty":null}`), &doc)
	require.NoError(t, err)

	assert.Equal(t, "A", content.GetString(doc, "hero.title"))
	assert.Equal(t, "3", content.GetString(doc, "hero.order"))
	assert.Equal(t, "false", content.GetString(doc, "hero.draft"))
	assert.Equal(t, "web", content.GetString(doc, "tags.1"))
	assert.Equal(t, "", content.GetString(doc, "empty"))
}

func TestUnmarshal_YAMLDates(t *testing.T) {
	doc, err := content.Decode(strings.NewReader("datenschutz:\n  lastUpdated: 2024-05-01\n"), content.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", content.GetString(doc, "datenschutz.lastUpdated"))
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := content.Unmarshal([]byte(`{"hero":`), content.FormatJSON)
	assert.Error(t, err)

	roots := []struct {
		name   string
		data   string
		format content.Format
	}{
		{"json array", `["not","an","object"]`, content.FormatJSON},
		{"json scalar", `"hero"`, content.FormatJSON},
		{"yaml sequence", "- hero\n- about\n", content.FormatYAML},
		{"yaml scalar", "hero\n", content.FormatYAML},
	}
	for _, tt := range roots {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := content.Unmarshal([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, content.ErrNotDocument)
			assert.Nil(t, doc)
		})
	}

	var m content.Map
	assert.ErrorIs(t, yaml.Unmarshal([]byte("- a\n- b\n"), &m), content.ErrNotDocument)
	assert.Empty(t, m)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, content.FormatYAML, content.FormatFromExt("content.yml"))
	assert.Equal(t, content.FormatJSON, content.FormatFromExt("content.json"))
	assert.Equal(t, ".yaml", content.FormatYAML.Ext())

	_, err := content.ParseFormat("toml")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, []string{
		"datenschutz.lastUpdated",
		"hero.cta",
		"hero.subtitle",
		"hero.title",
		"personalInfo.address.city",
		"personalInfo.address.street",
		"personalInfo.name",
	}, content.Paths(sampleDocument()))
}
