package model

import "time"

// ScanReport is the result of one sbomconfusion run.
// It holds one Finding per PackageEntry, in the order the entries appeared
// in the normalized SBOM. The report lives only for the duration of a run;
// nothing persists unless the caller requests an output file or history.
type ScanReport struct {
	// Input describes where the packages came from: the scanned directory
	// or the SBOM file path.
	Input string `json:"input"`

	// ScannedAt is when the check phase started.
	ScannedAt time.Time `json:"scannedAt"`

	// Findings is the ordered list of classifications, one per package.
	Findings []Finding `json:"findings"`
}

// NewScanReport creates an empty report for the given input description.
func NewScanReport(input string) *ScanReport {
	return &ScanReport{
		Input:     input,
		ScannedAt: time.Now(),
		Findings:  []Finding{},
	}
}

// AddFinding appends a finding to the report.
func (r *ScanReport) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// TotalFindings returns the number of findings, which equals the number of
// package entries that were checked.
func (r *ScanReport) TotalFindings() int {
	return len(r.Findings)
}

// CountByRisk returns the number of findings with the given risk level.
func (r *ScanReport) CountByRisk(risk Risk) int {
	count := 0
	for _, f := range r.Findings {
		if f.Risk == risk {
			count++
		}
	}
	return count
}

// FindingsByRisk returns the findings with the given risk level,
// preserving their original order.
func (r *ScanReport) FindingsByRisk(risk Risk) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Risk == risk {
			out = append(out, f)
		}
	}
	return out
}

// HasConfusable reports whether any finding was classified as
// possible-confusion.
func (r *ScanReport) HasConfusable() bool {
	return r.CountByRisk(RiskPossibleConfusion) > 0
}

// ConfusablePackages returns the purls of all findings classified as
// possible-confusion, preserving order.
func (r *ScanReport) ConfusablePackages() []string {
	var purls []string
	for _, f := range r.FindingsByRisk(RiskPossibleConfusion) {
		purls = append(purls, f.Package.PURL)
	}
	return purls
}
