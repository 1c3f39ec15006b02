// Package sbom generates and loads CycloneDX Software Bills of Materials.
//
// Generation walks a project directory for recognized manifest and lock
// files (package.json, package-lock.json, requirements.txt) and produces a
// typed CycloneDX document with one purl-bearing component per dependency.
// Loading parses a pre-existing CycloneDX JSON file supplied by the caller.
//
// Design decision: We map documents onto the typed schema from
// github.com/CycloneDX/cyclonedx-go instead of decoding into dynamic JSON.
// The typed schema catches malformed documents at the boundary and keeps
// the rest of the tool working with plain PackageEntry values.
package sbom
