// Package config provides 12-factor configuration for the registry tools.
//
// Configuration is loaded from environment variables with sensible defaults.
// The CLI layers an optional config file and flags on top.
//
// Configuration Sections:
//   - Registry: registry root, run mode and file watching
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	manager := registry.NewManager(cfg.Registry.Root, cfg.Registry.RunMode)
//
// Environment Variables:
//   - REGISTRY_ROOT, RUN_MODE, REGISTRY_WATCH
//   - LOG_LEVEL, LOG_DEV
package config
