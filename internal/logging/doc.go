// Package logging wraps log/slog with the handlers and attribute helpers
// used across obitcheck. It provides console and JSON output, multi-path
// writers, and component loggers carrying standardized field names.
package logging
