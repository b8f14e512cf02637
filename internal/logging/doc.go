// Package logging provides structured logging using uber/zap.
//
// Two modes follow the registry run mode:
//   - Production: JSON output for machine parsing
//   - Development: colored console output at debug level
//
// CLI loggers write to stderr so command output on stdout stays parseable.
//
// Example Usage:
//
//	logger, err := logging.New(logging.ForRunMode(types.RunModeDevelopment, ""))
//	logger.Info("Seeding registry", zap.String("root", root))
package logging
