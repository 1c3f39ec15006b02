package sbom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// TestLoad tests loading CycloneDX JSON files.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads valid CycloneDX document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "sbom.json")
		content := `{
			"bomFormat": "CycloneDX",
			"specVersion": "1.5",
			"version": 1,
			"components": [
				{"type": "library", "name": "left-pad", "version": "1.3.0", "purl": "pkg:npm/left-pad@1.3.0"},
				{"type": "library", "name": "requests", "version": "2.31.0", "purl": "pkg:pypi/requests@2.31.0"},
				{"type": "library", "name": "no-purl-component"}
			]
		}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		bom, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries := Entries(bom)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries (component without purl skipped), got %d", len(entries))
		}

		// Entries are sorted by purl: npm before pypi.
		if entries[0].Ecosystem != model.EcosystemNPM || entries[0].Name != "left-pad" {
			t.Errorf("unexpected first entry: %+v", entries[0])
		}
		if entries[1].Ecosystem != model.EcosystemPyPI || entries[1].Version != "2.31.0" {
			t.Errorf("unexpected second entry: %+v", entries[1])
		}
	})

	t.Run("malformed JSON returns ErrInvalidSBOM", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{this is not json"), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := Load(path)
		if !errors.Is(err, ErrInvalidSBOM) {
			t.Errorf("expected ErrInvalidSBOM, got %v", err)
		}
	})

	t.Run("non-CycloneDX JSON returns ErrInvalidSBOM", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "other.json")
		if err := os.WriteFile(path, []byte(`{"name": "just some json"}`), 0600); err != nil {
			t.Fatal(err)
		}

		_, err := Load(path)
		if !errors.Is(err, ErrInvalidSBOM) {
			t.Errorf("expected ErrInvalidSBOM, got %v", err)
		}
	})

	t.Run("missing file returns ErrInvalidSBOM", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		if !errors.Is(err, ErrInvalidSBOM) {
			t.Errorf("expected ErrInvalidSBOM, got %v", err)
		}
	})
}

// TestEntriesDeduplicates verifies duplicate purls collapse to one entry.
func TestEntriesDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sbom.json")
	content := `{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"version": 1,
		"components": [
			{"type": "library", "name": "left-pad", "purl": "pkg:npm/left-pad@1.3.0"},
			{"type": "library", "name": "left-pad", "purl": "pkg:npm/left-pad@1.3.0"}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	bom, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries := Entries(bom); len(entries) != 1 {
		t.Errorf("expected 1 deduplicated entry, got %d", len(entries))
	}
}
