package sbom

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/package-url/packageurl-go"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// skipDirs are directory names that never contain first-party manifests.
// Walking into node_modules in particular would add every transitive
// dependency's package.json as if it were a project manifest.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// dependency is an intermediate record produced by the manifest parsers
// before components are built.
type dependency struct {
	ecosystem model.Ecosystem
	name      string
	version   string
}

// Generator produces CycloneDX SBOM documents from project directories.
type Generator struct {
	// logger receives per-file parse diagnostics.
	logger *slog.Logger

	// toolVersion is recorded in the SBOM metadata.
	toolVersion string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger for parse diagnostics.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithToolVersion sets the tool version recorded in SBOM metadata.
func WithToolVersion(version string) GeneratorOption {
	return func(g *Generator) {
		g.toolVersion = version
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		logger:      slog.Default(),
		toolVersion: "(devel)",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate walks dir for recognized manifest and lock files and returns a
// CycloneDX BOM describing the declared dependencies. It returns
// ErrNotDirectory when dir does not exist or is not a directory.
//
// A single unreadable or malformed manifest is logged and skipped rather
// than failing the whole walk; an empty directory yields a BOM with no
// components.
func (g *Generator) Generate(ctx context.Context, dir string) (*cdx.BOM, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	// Lock files carry resolved versions, manifest files only ranges.
	// Collect everything and let mergeDependencies prefer versioned entries.
	var deps []dependency

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		parsed, perr := g.parseManifest(path, d.Name())
		if perr != nil {
			g.logger.Warn("skipping unparseable manifest", "path", path, "error", perr)
			return nil
		}
		deps = append(deps, parsed...)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, walkErr)
	}

	components := buildComponents(mergeDependencies(deps))

	bom := cdx.NewBOM()
	bom.Metadata = &cdx.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tools: &cdx.ToolsChoice{
			Components: &[]cdx.Component{
				{
					Type:    cdx.ComponentTypeApplication,
					Name:    "sbomconfusion",
					Version: g.toolVersion,
				},
			},
		},
	}
	bom.Components = &components

	g.logger.Debug("SBOM generated", "dir", dir, "components", len(components))
	return bom, nil
}

// parseManifest dispatches on the manifest file name.
// Unrecognized files return no dependencies and no error.
func (g *Generator) parseManifest(path, name string) ([]dependency, error) {
	switch name {
	case "package.json":
		return parsePackageJSON(path)
	case "package-lock.json":
		return parsePackageLockJSON(path)
	case "requirements.txt":
		return parseRequirementsTxt(path)
	default:
		return nil, nil
	}
}

// mergeDependencies deduplicates by ecosystem and name, preferring entries
// that carry a resolved version (lock files over manifests).
func mergeDependencies(deps []dependency) []dependency {
	merged := make(map[string]dependency, len(deps))
	for _, d := range deps {
		key := string(d.ecosystem) + "/" + d.name
		existing, ok := merged[key]
		if !ok || (existing.version == "" && d.version != "") {
			merged[key] = d
		}
	}

	out := make([]dependency, 0, len(merged))
	for _, d := range merged {
		out = append(out, d)
	}
	return out
}

// buildComponents converts dependencies into CycloneDX components with
// purls, sorted by purl for deterministic output.
func buildComponents(deps []dependency) []cdx.Component {
	components := make([]cdx.Component, 0, len(deps))
	for _, d := range deps {
		purl := purlFor(d)
		components = append(components, cdx.Component{
			BOMRef:     purl,
			Type:       cdx.ComponentTypeLibrary,
			Name:       d.name,
			Version:    d.version,
			PackageURL: purl,
		})
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i].PackageURL < components[j].PackageURL
	})
	return components
}

// purlFor builds the package URL for a dependency.
// Scoped npm names split into purl namespace and name.
func purlFor(d dependency) string {
	namespace := ""
	name := d.name
	if d.ecosystem == model.EcosystemNPM && strings.HasPrefix(name, "@") {
		if idx := strings.Index(name, "/"); idx > 0 {
			namespace = name[:idx]
			name = name[idx+1:]
		}
	}

	purlType := string(d.ecosystem)
	return packageurl.NewPackageURL(purlType, namespace, name, d.version, nil, "").ToString()
}
