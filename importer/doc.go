// Package importer converts a parsed XML Schema graph into a model-info
// type catalog.
//
// The importer resolves simple-type restriction chains according to a
// configurable policy, applies user-declared retype/extend overrides to
// individual schema types, renames elements through per-type element
// maps, and normalizes heavily prefixed class names into short labels.
// Override rules are loaded from, and exported to, a flat .properties
// document.
package importer
