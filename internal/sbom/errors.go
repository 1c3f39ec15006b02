package sbom

import "errors"

// Input validation errors.
// Both are fatal: they abort the run before any registry lookup happens.
var (
	// ErrNotDirectory is returned when the path given to Generate does not
	// exist or is not a directory.
	ErrNotDirectory = errors.New("input path is not a directory")

	// ErrInvalidSBOM is returned when an SBOM file cannot be read, is not
	// valid JSON, or is not a CycloneDX document.
	ErrInvalidSBOM = errors.New("invalid CycloneDX SBOM")
)
