package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sbomconfusion"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File holds settings loaded from the YAML configuration file.
//
// Example (.sbomconfusion):
//
//	internal_prefixes:
//	  - "@acme/"
//	  - acme-
//	timeout: 15s
//	registries:
//	  npm:
//	    url: https://registry.internal.example.com
//	    token: ${NPM_TOKEN}
type File struct {
	// InternalPrefixes lists package name prefixes the organization uses
	// for internal-only packages. A name matching one of these that is
	// claimed publicly is flagged, because someone else owns the public
	// record for an internal-looking name.
	InternalPrefixes []string `yaml:"internal_prefixes"`

	// Timeout overrides the default per-lookup timeout.
	// CLI flags take precedence over this value.
	Timeout time.Duration `yaml:"timeout"`

	// Registries overrides registry endpoints per ecosystem.
	// Keys are ecosystem names ("npm", "pypi").
	Registries map[string]Registry `yaml:"registries"`
}

// Registry configures one registry endpoint.
type Registry struct {
	// URL replaces the default public registry base URL.
	// Useful for mirrors and for tests.
	URL string `yaml:"url"`

	// Token is sent as a bearer token on lookup requests.
	// Never logged; the log package masks it if it ever reaches a logger.
	Token string `yaml:"token"`
}

// NewFile returns an empty configuration file structure.
func NewFile() *File {
	return &File{
		Registries: make(map[string]Registry),
	}
}

// MatchesInternalPrefix reports whether the package name matches one of the
// configured internal prefixes.
func (f *File) MatchesInternalPrefix(name string) bool {
	for _, prefix := range f.InternalPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.Registries == nil {
		f.Registries = make(map[string]Registry)
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sbomconfusion in the current directory
// 3. Look for .sbomconfusion in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
