package content_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/content"
)

func TestSetPath_CreatesIntermediates(t *testing.T) {
	got, err := content.SetPath(content.Map{}, "personalInfo.address.street", "Main St")
	require.NoError(t, err)

	want := content.Map{
		"personalInfo": content.Map{
			"address": content.Map{
				"street": content.Leaf("Main St"),
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SetPath() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetPath_NilDocument(t *testing.T) {
	got, err := content.SetPath(nil, "hero.title", "Hallo")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", content.GetString(got, "hero.title"))
}

func TestSetPath_PreservesSiblings(t *testing.T) {
	doc := content.Map{
		"hero": content.Map{
			"title":    content.Leaf("Old"),
			"subtitle": content.Leaf("Sub"),
		},
		"about": content.Map{
			"title": content.Leaf("About me"),
		},
		"personalInfo": content.Map{
			"address": content.Map{
				"city": content.Leaf("Leipzig"),
			},
		},
	}

	got, err := content.SetPath(doc, "hero.title", "New")
	require.NoError(t, err)
	got, err = content.SetPath(got, "personalInfo.address.street", "Main St")
	require.NoError(t, err)

	assert.Equal(t, "New", content.GetString(got, "hero.title"))
	assert.Equal(t, "Sub", content.GetString(got, "hero.subtitle"))
	assert.Equal(t, "About me", content.GetString(got, "about.title"))
	assert.Equal(t, "Leipzig", content.GetString(got, "personalInfo.address.city"))
	assert.Equal(t, "Main St", content.GetString(got, "personalInfo.address.street"))

	// Every leaf of the original not on the edited paths is unchanged.
	edited := map[string]bool{"hero.title": true}
	for path, value := range content.Flatten(doc) {
		if edited[path] {
			continue
		}
		assert.Equal(t, value, content.GetString(got, path), "path %s", path)
	}
}

func TestSetPath_DoesNotMutateInput(t *testing.T) {
	doc := content.Map{
		"hero": content.Map{"title": content.Leaf("A")},
	}
	before := content.Clone(doc)

	got, err := content.SetPath(doc, "hero.title", "B")
	require.NoError(t, err)

	if diff := cmp.Diff(before, doc); diff != "" {
		t.Errorf("input was modified (-before +after):\n%s", diff)
	}

	// Mutating the result must not reach the caller's maps either.
	got["hero"].(content.Map)["cta"] = content.Leaf("x")
	_, leaked := content.Get(doc, "hero.cta")
	assert.False(t, leaked)
}

func TestSetPath_Idempotent(t *testing.T) {
	doc := content.Map{"about": content.Map{"title": content.Leaf("B")}}

	once, err := content.SetPath(doc, "hero.cta", "Kontakt")
	require.NoError(t, err)
	twice, err := content.SetPath(once, "hero.cta", "Kontakt")
	require.NoError(t, err)

	assert.True(t, content.Equal(once, twice))
}

func TestSetPath_IntermediateLeaf(t *testing.T) {
	doc := content.Map{
		"impressum": content.Leaf("plain text"),
		"hero":      content.Map{"title": content.Leaf("A")},
	}

	t.Run("Overwrite", func(t *testing.T) {
		got, err := content.SetPath(doc, "impressum.company", "ACME")
		require.NoError(t, err)
		assert.Equal(t, "ACME", content.GetString(got, "impressum.company"))
		assert.Equal(t, "A", content.GetString(got, "hero.title"))
	})

	t.Run("Strict", func(t *testing.T) {
		_, err := content.SetPath(doc, "impressum.company", "ACME", content.WithPolicy(content.Strict))
		require.Error(t, err)
		assert.True(t, errors.Is(err, content.ErrNotMapping))

		var pe *content.PathError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 1, pe.Prefix)
		assert.Equal(t, "impressum.company", pe.Path.String())
	})

	t.Run("Strict allows missing segments", func(t *testing.T) {
		got, err := content.SetPath(doc, "legal.datenschutz", "text", content.WithPolicy(content.Strict))
		require.NoError(t, err)
		assert.Equal(t, "text", content.GetString(got, "legal.datenschutz"))
	})
}

func TestSetPath_TerminalReplacesMapping(t *testing.T) {
	doc := content.Map{"hero": content.Map{"title": content.Leaf("A")}}

	got, err := content.SetPath(doc, "hero", "flat")
	require.NoError(t, err)
	assert.Equal(t, content.Leaf("flat"), got["hero"])
}

func TestSetPath_InvalidPaths(t *testing.T) {
	for _, path := range []string{"", ".", "hero.", ".hero", "hero..title"} {
		t.Run(path, func(t *testing.T) {
			_, err := content.SetPath(content.Map{}, path, "v")
			assert.ErrorIs(t, err, content.ErrInvalidPath)
		})
	}
}

func TestPath_HasPrefix(t *testing.T) {
	p := content.MustParsePath("personalInfo.address.street")
	assert.True(t, p.HasPrefix(content.MustParsePath("personalInfo")))
	assert.True(t, p.HasPrefix(content.MustParsePath("personalInfo.address")))
	assert.False(t, p.HasPrefix(content.MustParsePath("personalInfo.name")))
	assert.Equal(t, "personalInfo", p.Section())
}
