// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. Components default to NoOpLogger; the CLI and HTTP
// server wire a JSON or text slog handler built by NewSlogLogger.
package logging
