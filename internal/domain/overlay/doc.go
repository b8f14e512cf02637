// Package overlay loads raw registry definitions from disk.
//
// A definition is a base file <root>/<category>/<name>.yaml, optionally
// combined with a development overlay <root>/<category>/<name>.dev.yaml.
// Overlays are only read in development mode.
//
// Merge Semantics:
//
// The overlay is merged one level deep: each top-level key of the overlay
// replaces the base value under that key wholesale. Nested mappings are not
// merged, so an overlay that sets source.path drops every other key of the
// base source mapping. This is long-standing behavior that definitions rely
// on; do not replace it with a recursive merge.
//
// Errors:
//   - NotFoundError (errors.Is ErrNotFound): the base file does not exist
//   - MalformedSourceError (errors.Is ErrMalformedSource): a file is not a YAML mapping
//
// Example Usage:
//
//	loader := overlay.NewLoader("registries")
//	raw, err := loader.Load(types.CategoryPackages, "vqa_dataset", types.RunModeDevelopment)
package overlay
