// Package model defines the core data structures used throughout sbomconfusion.
//
// This package contains the following main types:
//   - PackageEntry: A single dependency extracted from a CycloneDX SBOM
//   - Finding: The classification result for one package entry
//   - ScanReport: The ordered collection of findings for one run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (sbom, checker, report, history) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// history storage.
package model
