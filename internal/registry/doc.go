// Package registry provides clients for public package registry lookups.
//
// Each supported ecosystem (npm, PyPI) has a client implementing the same
// Client interface: look up an exact package name and report whether the
// registry knows it. Adding another ecosystem means adding another client
// variant; the checker logic never changes.
//
// Design decision: Clients answer with a Result for the two conclusive
// HTTP outcomes (200 exists, 404 not found) and return an error for
// everything else. Transient failures (network errors, 5xx) get a single
// bounded retry; conclusive answers are never retried.
package registry
