package model

import "testing"

// TestRegistryStatusString tests the String method for all status values.
func TestRegistryStatusString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status RegistryStatus
		want   string
	}{
		{"exists", StatusExists, "exists"},
		{"not found", StatusNotFound, "not-found"},
		{"lookup error", StatusLookupError, "lookup-error"},
		{"out of range", RegistryStatus(99), "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.status.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestRiskString tests the String method for all risk values.
func TestRiskString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		risk Risk
		want string
	}{
		{"none", RiskNone, "none"},
		{"possible confusion", RiskPossibleConfusion, "possible-confusion"},
		{"unknown", RiskUnknown, "unknown"},
		{"out of range", Risk(99), "invalid"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.risk.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestRiskLabel tests the report marker mapping.
func TestRiskLabel(t *testing.T) {
	t.Parallel()

	if got := RiskPossibleConfusion.Label(); got != "WARN" {
		t.Errorf("expected WARN, got %q", got)
	}
	if got := RiskUnknown.Label(); got != "INFO" {
		t.Errorf("expected INFO, got %q", got)
	}
	if got := RiskNone.Label(); got != "OK" {
		t.Errorf("expected OK, got %q", got)
	}
}

// TestParseEcosystem tests purl type mapping including unsupported types.
func TestParseEcosystem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		purlType string
		want     Ecosystem
	}{
		{"npm", EcosystemNPM},
		{"pypi", EcosystemPyPI},
		{"golang", EcosystemOther},
		{"cargo", EcosystemOther},
		{"", EcosystemOther},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.purlType, func(t *testing.T) {
			t.Parallel()
			if got := ParseEcosystem(tt.purlType); got != tt.want {
				t.Errorf("ParseEcosystem(%q) = %q, want %q", tt.purlType, got, tt.want)
			}
		})
	}
}
