// Package types provides the entity definitions shared by every registry component.
//
// Each registry category maps to exactly one entity type. Entities are built by
// the schema package from raw configuration mappings and are treated as
// immutable once constructed: the registry hands out the same pointer to every
// caller, so nothing may modify an entity after it has been returned.
//
// Entity Types:
//   - Package: installable dependency with a tagged DependencySource
//   - Task: ML task (entry point, supported metrics/reports/frameworks)
//   - Dataset, Metric, Report: pluggable implementations referenced by runs
//   - Run: one benchmark run (task, model, dataset, metrics, reports)
//   - ExperimentPlan: a group of named or inline runs
//
// Value Types:
//   - DependencySource: LocalSource | GitSource | PyPISource
//   - ModelConfig: model under test and its inference framework
//   - RuntimeManifest: resolved package sources of a run
//
// Enumerations:
//   - Category: the seven registry namespaces
//   - RunMode: development (overlays on) or production (overlays off)
package types
