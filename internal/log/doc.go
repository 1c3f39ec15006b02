// Package log provides structured logging with automatic redaction of
// registry credentials.
//
// The config file may carry authentication tokens for private registry
// mirrors, and lookup failures are logged with request context. The
// RedactHandler wraps any slog.Handler and masks attribute values that
// look like credentials before they reach the output, so verbose logging
// never leaks a token into a terminal or a CI log.
package log
