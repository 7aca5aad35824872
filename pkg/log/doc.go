// Package log provides structured logging for labctl using zerolog.
//
// A single global logger is initialized once from the CLI flags (--quiet,
// --debug, --json) and components derive child loggers with WithComponent or
// WithSessionID. Console output goes to stderr so generated session IDs and
// listings on stdout stay machine-readable.
package log
