package model

// RegistryStatus records the outcome of a public registry lookup for one
// package name.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type RegistryStatus int

const (
	// StatusExists means the public registry returned a record for the
	// exact package name.
	StatusExists RegistryStatus = iota

	// StatusNotFound means the public registry reported no package with
	// that name. The name is claimable by anyone.
	StatusNotFound

	// StatusLookupError means the lookup could not be completed: network
	// failure, timeout, unexpected HTTP status, or an ecosystem without a
	// registry client. Lookup errors are recorded per package and never
	// abort the run.
	StatusLookupError
)

// String returns a human-readable representation of the registry status.
func (s RegistryStatus) String() string {
	switch s {
	case StatusExists:
		return "exists"
	case StatusNotFound:
		return "not-found"
	case StatusLookupError:
		return "lookup-error"
	default:
		return "unknown"
	}
}

// Risk is the dependency-confusion classification of a package entry.
type Risk int

const (
	// RiskNone means the package exists publicly and nothing suggests the
	// public record conflicts with the declared dependency.
	RiskNone Risk = iota

	// RiskPossibleConfusion means the name is not claimed in the public
	// registry (an internal-only name that could be squatted), or an
	// internal-looking name turned out to be publicly claimed.
	RiskPossibleConfusion

	// RiskUnknown means the lookup failed or the ecosystem is unsupported,
	// so no classification is possible.
	RiskUnknown
)

// String returns a human-readable representation of the risk level.
func (r Risk) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskPossibleConfusion:
		return "possible-confusion"
	case RiskUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Label returns the report marker for the risk level, matching the
// [WARN]/[INFO]/[OK] vocabulary of the text report.
func (r Risk) Label() string {
	switch r {
	case RiskPossibleConfusion:
		return "WARN"
	case RiskUnknown:
		return "INFO"
	default:
		return "OK"
	}
}

// Finding is the classification result for exactly one PackageEntry.
// Every entry in a scan maps to exactly one Finding; findings are created
// by the checker and consumed only by the reporter and history store.
type Finding struct {
	// Package is the entry this finding classifies.
	Package PackageEntry `json:"package"`

	// Status is the registry lookup outcome.
	Status RegistryStatus `json:"registryStatus"`

	// Risk is the dependency-confusion classification.
	Risk Risk `json:"risk"`

	// Note carries optional human-readable detail: the lookup error
	// message, or a heuristic observation such as a declared version that
	// is absent from the public registry.
	Note string `json:"note,omitempty"`
}
