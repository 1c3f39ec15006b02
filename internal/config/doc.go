// Package config provides configuration structures and utilities for
// sbomconfusion. It defines the main options for SBOM generation, registry
// lookups, and report output, plus the optional YAML configuration file
// that declares internal package name prefixes and registry overrides.
package config
