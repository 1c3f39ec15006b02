// Package main provides the entry point for the sbomconfusion CLI.
//
// sbomconfusion detects dependency confusion risk in software projects.
// It builds or loads a CycloneDX SBOM, checks every npm and PyPI package
// name against the public registries, and reports names that are
// unclaimed (and therefore squattable) or otherwise suspicious.
//
// Usage:
//
//	sbomconfusion --directory ./my-project
//	sbomconfusion --sbom-in sbom.json --json
//
// See --help for all available options.
package main

// main is the entry point for sbomconfusion.
func main() {
	Execute()
}
