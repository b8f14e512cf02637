// Command registry inspects and validates a benchmark registry tree.
//
// Usage:
//
//	registry get runs qwen_vqa
//	registry list tasks
//	registry validate-run qwen_vqa
//	registry validate-experiment nightly
//	registry check
//	registry manifest qwen_vqa
//	registry watch
//
// Global flags:
//
//	--root       registry root directory (REGISTRY_ROOT)
//	--mode       development or production (RUN_MODE)
//	--config     YAML file with root, run_mode, log_level, log_dev keys
//	--log-level  zap level (LOG_LEVEL)
//
// Environment variables are read first, then the config file, then flags.
package main
