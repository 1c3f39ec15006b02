package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// testReport builds a report with one confusable and one safe finding.
func testReport(input string) *model.ScanReport {
	report := model.NewScanReport(input)
	report.ScannedAt = time.Now().UTC()

	report.AddFinding(model.Finding{
		Package: model.PackageEntry{
			Name:      "acme-internal-lib",
			Ecosystem: model.EcosystemPyPI,
			Version:   "0.3.0",
			PURL:      "pkg:pypi/acme-internal-lib@0.3.0",
		},
		Status: model.StatusNotFound,
		Risk:   model.RiskPossibleConfusion,
	})
	report.AddFinding(model.Finding{
		Package: model.PackageEntry{
			Name:      "left-pad",
			Ecosystem: model.EcosystemNPM,
			Version:   "1.3.0",
			PURL:      "pkg:npm/left-pad@1.3.0",
		},
		Status: model.StatusExists,
		Risk:   model.RiskNone,
	})

	return report
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database with default options", func(t *testing.T) {
		t.Parallel()

		store, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer store.Close()

		if store.Path() == "" {
			t.Error("expected non-empty database path")
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "data")
		store, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer store.Close()
	})
}

func TestSaveAndListScans(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	id1, err := store.SaveScan(ctx, testReport("/src/app"))
	if err != nil {
		t.Fatalf("failed to save scan: %v", err)
	}
	id2, err := store.SaveScan(ctx, testReport("/src/other"))
	if err != nil {
		t.Fatalf("failed to save scan: %v", err)
	}
	if id1 == id2 {
		t.Errorf("expected distinct scan IDs, got %d twice", id1)
	}

	t.Run("lists newest first", func(t *testing.T) {
		scans, err := store.ListScans(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list scans: %v", err)
		}
		if len(scans) != 2 {
			t.Fatalf("expected 2 scans, got %d", len(scans))
		}
		if scans[0].ID != id2 {
			t.Errorf("expected newest scan first, got ID %d", scans[0].ID)
		}
		if scans[0].Input != "/src/other" {
			t.Errorf("expected input /src/other, got %q", scans[0].Input)
		}
		if scans[0].PackageCount != 2 {
			t.Errorf("expected 2 packages, got %d", scans[0].PackageCount)
		}
		if scans[0].RiskSummary[model.RiskPossibleConfusion.String()] != 1 {
			t.Errorf("expected 1 possible-confusion in summary, got %v", scans[0].RiskSummary)
		}
		if len(scans[0].ConfusablePURLs) != 1 || scans[0].ConfusablePURLs[0] != "pkg:pypi/acme-internal-lib@0.3.0" {
			t.Errorf("unexpected confusable purls: %v", scans[0].ConfusablePURLs)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		scans, err := store.ListScans(ctx, 1)
		if err != nil {
			t.Fatalf("failed to list scans: %v", err)
		}
		if len(scans) != 1 {
			t.Fatalf("expected 1 scan, got %d", len(scans))
		}
	})
}

func TestGetScanByID(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	id, err := store.SaveScan(ctx, testReport("/src/app"))
	if err != nil {
		t.Fatalf("failed to save scan: %v", err)
	}

	t.Run("round trips the full report", func(t *testing.T) {
		got, err := store.GetScanByID(ctx, id)
		if err != nil {
			t.Fatalf("failed to get scan: %v", err)
		}
		if got == nil {
			t.Fatal("expected report, got nil")
		}
		if got.Input != "/src/app" {
			t.Errorf("expected input /src/app, got %q", got.Input)
		}
		if len(got.Findings) != 2 {
			t.Errorf("expected 2 findings, got %d", len(got.Findings))
		}
		if got.Findings[0].Risk != model.RiskPossibleConfusion {
			t.Errorf("expected possible-confusion, got %s", got.Findings[0].Risk)
		}
	})

	t.Run("missing ID returns nil", func(t *testing.T) {
		got, err := store.GetScanByID(ctx, id+1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for missing ID, got %+v", got)
		}
	})
}

func TestLatestScan(t *testing.T) {
	t.Parallel()

	store, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if _, err := store.SaveScan(ctx, testReport("/src/app")); err != nil {
		t.Fatalf("failed to save scan: %v", err)
	}

	second := testReport("/src/app")
	second.Findings = second.Findings[:1]
	if _, err := store.SaveScan(ctx, second); err != nil {
		t.Fatalf("failed to save scan: %v", err)
	}

	t.Run("returns most recent scan for input", func(t *testing.T) {
		got, err := store.LatestScan(ctx, "/src/app")
		if err != nil {
			t.Fatalf("failed to get latest scan: %v", err)
		}
		if got == nil {
			t.Fatal("expected report, got nil")
		}
		if len(got.Findings) != 1 {
			t.Errorf("expected the later scan with 1 finding, got %d", len(got.Findings))
		}
	})

	t.Run("unknown input returns nil", func(t *testing.T) {
		got, err := store.LatestScan(ctx, "/never/scanned")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for unscanned input, got %+v", got)
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"sqlite default format", "2026-08-31 12:00:00", false},
		{"iso 8601 with Z", "2026-08-31T12:00:00Z", false},
		{"garbage returns zero time", "not a timestamp", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q).IsZero() = %v, want %v", tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}
