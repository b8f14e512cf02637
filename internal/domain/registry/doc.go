// Package registry resolves benchmark definitions from a registry tree.
//
// The Manager is the single entry point: it loads a definition through the
// overlay loader, builds the typed entity with the schema package and caches
// it under (category, name) for its lifetime.
//
// Components:
//   - Manager: memoizing resolver with one typed accessor per category
//   - ValidateRun / ValidateExperiment: cross-checks runs against their task
//   - ResolveRun / BuildManifest: everything a run needs, and its package record
//   - Seeder: resolves every definition under the root up front
//   - Watcher: invalidates cached entities when their files change
//
// Concurrency:
//   - Cached reads go through sync.Map without locking
//   - Misses for the same (category, name) share one load via singleflight
//   - A failed load leaves no cache entry
//
// Example Usage:
//
//	manager := registry.NewManager("registries", types.RunModeProduction)
//	run, err := manager.GetRun("qwen_vqa")
//	if err := manager.ValidateRun(run); err != nil {
//		var cv *registry.ConstraintViolationError
//		errors.As(err, &cv)
//	}
package registry
