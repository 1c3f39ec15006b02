// Package checker classifies package entries by dependency-confusion risk.
//
// For each entry the checker queries the matching registry client and maps
// the outcome onto a Finding: a name the public registry does not know is
// claimable and flagged possible-confusion; a claimed name is fine unless
// heuristics (internal name prefixes, unpublished declared versions)
// suggest otherwise; failed lookups and unsupported ecosystems are
// recorded as unknown and never abort the run.
//
// Lookups run strictly one at a time. There is no shared mutable state and
// the worst case cost is one network round trip per package, so a
// concurrency layer would buy little and complicate cancellation.
package checker
