package sbom

import (
	"fmt"
	"os"
	"sort"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/package-url/packageurl-go"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// Load parses an existing CycloneDX JSON file.
// A missing file, malformed JSON, or a JSON document that is not CycloneDX
// all return an error wrapping ErrInvalidSBOM.
func Load(path string) (*cdx.BOM, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided SBOM path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSBOM, err)
	}
	defer f.Close()

	var bom cdx.BOM
	if err := cdx.NewBOMDecoder(f, cdx.BOMFileFormatJSON).Decode(&bom); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSBOM, path, err)
	}

	// A JSON object that is not an SBOM decodes cleanly into an empty BOM,
	// so the format marker is the only reliable check.
	if bom.BOMFormat != "CycloneDX" {
		return nil, fmt.Errorf("%w: %s: missing CycloneDX bomFormat", ErrInvalidSBOM, path)
	}

	return &bom, nil
}

// Save writes the BOM as pretty-printed CycloneDX JSON to path.
func Save(bom *cdx.BOM, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // SBOMs are meant to be shared
	if err != nil {
		return fmt.Errorf("failed to create SBOM file: %w", err)
	}
	defer f.Close()

	encoder := cdx.NewBOMEncoder(f, cdx.BOMFileFormatJSON)
	encoder.SetPretty(true)
	if err := encoder.Encode(bom); err != nil {
		return fmt.Errorf("failed to encode SBOM: %w", err)
	}
	return nil
}

// Entries normalizes the BOM components into an ordered, deduplicated list
// of package entries. Components without a purl, or with a purl that does
// not parse, are skipped: there is nothing to look up for them.
// Entries are sorted by purl so that report order is deterministic
// regardless of how the SBOM was produced.
func Entries(bom *cdx.BOM) []model.PackageEntry {
	if bom.Components == nil {
		return nil
	}

	seen := make(map[string]bool, len(*bom.Components))
	var entries []model.PackageEntry
	for _, comp := range *bom.Components {
		if comp.PackageURL == "" || seen[comp.PackageURL] {
			continue
		}

		purl, err := packageurl.FromString(comp.PackageURL)
		if err != nil {
			continue
		}
		seen[comp.PackageURL] = true

		name := purl.Name
		if purl.Namespace != "" {
			name = purl.Namespace + "/" + purl.Name
		}

		entries = append(entries, model.PackageEntry{
			Name:      name,
			Ecosystem: model.ParseEcosystem(purl.Type),
			Version:   purl.Version,
			PURL:      comp.PackageURL,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PURL < entries[j].PURL
	})
	return entries
}
