// Package logging assembles the structured slog loggers used across reelcheck.
//
// It owns the console and JSON handlers, level parsing, and the optional
// rotating log file, and exposes attribute helpers plus standard field names so
// every component emits records with the same shape. Console output goes to
// stderr; stdout is reserved for command output such as summaries and tables.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
