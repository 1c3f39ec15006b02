package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when neither --directory nor --sbom-in is
	// specified. The tool needs exactly one package source.
	ErrNoInput = errors.New("no input specified: provide --directory or --sbom-in")

	// ErrConflictingInputs is returned when both --directory and --sbom-in
	// are specified. Supplying an SBOM skips generation, so a directory
	// would be ignored; rejecting the combination avoids surprises.
	ErrConflictingInputs = errors.New("conflicting inputs: --directory and --sbom-in cannot be used together")

	// ErrInvalidTimeout is returned when the lookup timeout is not positive.
	// A timeout of zero or negative would cause immediate lookup failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrNoReportPath is returned when the report output path is empty.
	ErrNoReportPath = errors.New("no report path: --report-out must not be empty")

	// ErrNoSBOMPath is returned when --directory is used but the SBOM
	// output path is empty. Generation always writes the SBOM it produced.
	ErrNoSBOMPath = errors.New("no SBOM path: --sbom-out must not be empty")
)
