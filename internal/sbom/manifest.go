package sbom

import (
	"bufio"
	"encoding/json"
	"os"
	"regexp"
	"strings"

	npm "github.com/aquasecurity/go-npm-version/pkg"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// packageJSON is the subset of npm's package.json this tool reads.
type packageJSON struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
}

// packageLockJSON covers both lockfile v1 (dependencies) and v2/v3 (packages).
type packageLockJSON struct {
	Packages     map[string]lockPackage `json:"packages"`
	Dependencies map[string]lockDep     `json:"dependencies"`
}

type lockPackage struct {
	Version string `json:"version"`
	Link    bool   `json:"link"`
}

type lockDep struct {
	Version      string             `json:"version"`
	Dependencies map[string]lockDep `json:"dependencies"`
}

// parsePackageJSON extracts declared npm dependencies from a package.json.
// Range specifiers that pin an exact version (optionally prefixed with
// ^, ~, or =) keep that version; anything else yields a versionless entry.
func parsePackageJSON(path string) ([]dependency, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the directory walk
	if err != nil {
		return nil, err
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	var deps []dependency
	for _, section := range []map[string]string{
		pkg.Dependencies,
		pkg.DevDependencies,
		pkg.OptionalDependencies,
		pkg.PeerDependencies,
	} {
		for name, rangeSpec := range section {
			deps = append(deps, dependency{
				ecosystem: model.EcosystemNPM,
				name:      name,
				version:   exactNpmVersion(rangeSpec),
			})
		}
	}
	return deps, nil
}

// exactNpmVersion returns the pinned version from an npm range specifier,
// or empty when the specifier is a real range, a tag, or a URL.
func exactNpmVersion(rangeSpec string) string {
	v := strings.TrimSpace(rangeSpec)
	v = strings.TrimPrefix(v, "=")
	v = strings.TrimPrefix(v, "^")
	v = strings.TrimPrefix(v, "~")
	v = strings.TrimPrefix(v, "v")
	if v == "" {
		return ""
	}
	if _, err := npm.NewVersion(v); err != nil {
		return ""
	}
	return v
}

// parsePackageLockJSON extracts resolved npm dependencies from a
// package-lock.json. Lockfile v2/v3 "packages" entries are preferred;
// v1 "dependencies" trees are walked recursively as a fallback.
func parsePackageLockJSON(path string) ([]dependency, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the directory walk
	if err != nil {
		return nil, err
	}

	var lock packageLockJSON
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	var deps []dependency

	if len(lock.Packages) > 0 {
		for key, pkg := range lock.Packages {
			// The "" key is the root project itself, links point at
			// workspace directories rather than registry packages.
			if key == "" || pkg.Link {
				continue
			}
			name := lockPackageName(key)
			if name == "" {
				continue
			}
			deps = append(deps, dependency{
				ecosystem: model.EcosystemNPM,
				name:      name,
				version:   pkg.Version,
			})
		}
		return deps, nil
	}

	var walk func(m map[string]lockDep)
	walk = func(m map[string]lockDep) {
		for name, d := range m {
			deps = append(deps, dependency{
				ecosystem: model.EcosystemNPM,
				name:      name,
				version:   d.Version,
			})
			walk(d.Dependencies)
		}
	}
	walk(lock.Dependencies)
	return deps, nil
}

// lockPackageName extracts the package name from a lockfile v2/v3 path key
// such as "node_modules/@acme/utils" or "node_modules/a/node_modules/b".
func lockPackageName(key string) string {
	const marker = "node_modules/"
	idx := strings.LastIndex(key, marker)
	if idx < 0 {
		return ""
	}
	return key[idx+len(marker):]
}

// requirementLine matches the package name at the start of a requirements
// line, stopping at extras, version specifiers, or environment markers.
var requirementLine = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)

// pypiNormalize collapses runs of separators per PEP 503 so that the name
// matches what the PyPI JSON API expects.
var pypiNormalize = regexp.MustCompile(`[-_.]+`)

// parseRequirementsTxt extracts declared PyPI dependencies from a
// requirements.txt. Only "==" pins yield a version; other specifiers
// (>=, ~=, etc.) yield versionless entries. Option lines (-r, -e, --hash)
// and comments are skipped.
func parseRequirementsTxt(path string) ([]dependency, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the directory walk
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var deps []dependency
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		// Strip trailing comments and environment markers.
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		match := requirementLine.FindString(line)
		if match == "" {
			continue
		}

		version := ""
		if idx := strings.Index(line, "=="); idx >= 0 {
			version = strings.TrimSpace(line[idx+2:])
			// "pkg==1.0,<2.0" pins the first clause only.
			if comma := strings.Index(version, ","); comma >= 0 {
				version = strings.TrimSpace(version[:comma])
			}
		}

		deps = append(deps, dependency{
			ecosystem: model.EcosystemPyPI,
			name:      strings.ToLower(pypiNormalize.ReplaceAllString(match, "-")),
			version:   version,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return deps, nil
}
