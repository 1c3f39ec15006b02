// Package history provides SQLite-based storage for past scan reports.
//
// Persistence is strictly opt-in. A scan never touches the history store
// unless the caller asks for it, so the default behavior of the tool
// remains stateless between invocations. The store lives under the XDG
// data directory and can be inspected with the history subcommand.
package history
