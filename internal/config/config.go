package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The output defaults match the file names the tool has always produced,
// so existing scripts keep working.
const (
	// DefaultSBOMOut is the path the generated SBOM is written to when
	// --directory is used and no --sbom-out is given.
	DefaultSBOMOut = "sbom.json"

	// DefaultReportOut is the default report file path.
	DefaultReportOut = "dependency_confusion_report.txt"

	// DefaultLookupTimeout is the per-lookup HTTP timeout. Public registry
	// endpoints normally answer well under this; a longer timeout would only
	// slow down runs with unreachable registries since lookups are sequential.
	DefaultLookupTimeout = 10 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "sbomconfusion"
)

// Config holds all configuration options for sbomconfusion.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Directory is the project directory to scan for manifest and lock
	// files. When set, an SBOM is generated and written to SBOMOut.
	// Mutually exclusive with SBOMIn.
	Directory string

	// SBOMIn is the path of a pre-existing CycloneDX JSON file.
	// When set, SBOM generation is skipped and the file is loaded directly.
	SBOMIn string

	// SBOMOut is the path the generated SBOM is written to.
	// Only used when Directory is set.
	SBOMOut string

	// ReportOut is the path the confusion report is written to.
	ReportOut string

	// JSONReport enables JSON report output instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of plain text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Timeout is the per-lookup HTTP timeout. Lookups run one at a time,
	// so the worst-case run time is roughly Timeout times the package count.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sbomconfusion in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// File holds settings loaded from the configuration file: internal
	// name prefixes, registry overrides, and auth tokens.
	File *File

	// SaveHistory enables recording the scan summary in the local SQLite
	// history database. Off by default: a plain run leaves nothing behind
	// except the output files the caller asked for.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	HistoryDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		SBOMOut:    DefaultSBOMOut,
		ReportOut:  DefaultReportOut,
		Timeout:    DefaultLookupTimeout,
		File:       NewFile(),
		HistoryDir: XDGDataDir(),
	}
}

// Validate checks the configuration for errors before any lookup runs.
// It returns a sentinel error describing the first problem found.
func (c *Config) Validate() error {
	if c.Directory == "" && c.SBOMIn == "" {
		return ErrNoInput
	}
	if c.Directory != "" && c.SBOMIn != "" {
		return ErrConflictingInputs
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.ReportOut == "" {
		return ErrNoReportPath
	}
	if c.Directory != "" && c.SBOMOut == "" {
		return ErrNoSBOMPath
	}
	return nil
}

// XDGDataDir returns the XDG data directory for sbomconfusion.
// This is where the optional scan history database lives.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
