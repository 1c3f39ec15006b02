package model

// Ecosystem identifies the package registry namespace a dependency belongs to.
// The value is derived from the type component of the package URL (purl)
// declared in the SBOM.
type Ecosystem string

const (
	// EcosystemNPM is the npm registry namespace (JavaScript/Node.js packages).
	EcosystemNPM Ecosystem = "npm"

	// EcosystemPyPI is the Python Package Index namespace.
	EcosystemPyPI Ecosystem = "pypi"

	// EcosystemOther covers purl types without a registry client.
	// Entries in this ecosystem cannot be looked up and are always
	// classified with RiskUnknown.
	EcosystemOther Ecosystem = "other"
)

// ParseEcosystem maps a purl type string (e.g. "npm", "pypi", "golang")
// to an Ecosystem. Unrecognized types map to EcosystemOther rather than
// failing, because an SBOM may legitimately contain components from
// ecosystems this tool does not check.
func ParseEcosystem(purlType string) Ecosystem {
	switch purlType {
	case "npm":
		return EcosystemNPM
	case "pypi":
		return EcosystemPyPI
	default:
		return EcosystemOther
	}
}

// String returns the ecosystem name as used in purls and reports.
func (e Ecosystem) String() string {
	return string(e)
}

// PackageEntry is a single dependency declared in an SBOM.
// Entries are immutable once parsed: the sbom package creates them and
// every later stage only reads them.
type PackageEntry struct {
	// Name is the package name as known to its registry.
	// For scoped npm packages this includes the scope (e.g. "@acme/utils").
	Name string `json:"name"`

	// Ecosystem is the registry namespace the package belongs to.
	Ecosystem Ecosystem `json:"ecosystem"`

	// Version is the declared version, if the SBOM carried one.
	// May be empty for manifest entries that only declare version ranges.
	Version string `json:"version,omitempty"`

	// PURL is the full package URL the entry was parsed from.
	// It uniquely identifies the entry within a scan.
	PURL string `json:"purl"`
}
