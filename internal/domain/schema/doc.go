// Package schema turns raw registry mappings into typed, validated entities.
//
// Construction is dispatched through a fixed table from types.Category to a
// constructor; there is no runtime type registry. Each constructor decodes
// the mapping with mapstructure, applies defaults, and checks field
// constraints with go-playground/validator.
//
// Tagged Unions:
//
// A package source is selected by its "type" field (local, git or pypi) and
// decoded into the matching DependencySource variant. Run custom packages and
// experiment tasks accept either a bare name or an inline definition.
//
// Unknown Keys:
//
// Top-level keys that no field models are copied into the entity metadata.
// Unknown keys under a run's model are copied into model params. Explicit
// metadata and params entries win on conflict.
//
// All failures are reported as *ValidationError (errors.Is ErrValidation).
package schema
