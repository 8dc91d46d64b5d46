// Package content holds the editable content tree of the site.
//
// A Document is a tree of named fields. Every value is either a Leaf
// (a string, dates included as YYYY-MM-DD) or a nested Map. Two kinds of
// writes exist:
//
//   - SetPath addresses a single leaf with a dotted path ("hero.title") and
//     creates missing intermediate mappings on the way.
//   - Merge replaces whole top-level sections of a persisted document with
//     the sections of a partial one, leaving every other section untouched.
//
// All operations return new documents. Inputs are never modified and the
// results never alias maps owned by the caller.
package content
