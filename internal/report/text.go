package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// TextWriter outputs human-readable text reports.
// This is the default format, written to dependency_confusion_report.txt
// unless the caller chooses another path or format.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because the report usually lands in a file, not a terminal.
type TextWriter struct {
	baseWriter

	// showEmpty controls whether risk groups with no findings are shown.
	showEmpty bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to show empty risk groups.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *TextWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                  DEPENDENCY CONFUSION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Input:     %s\n", report.Input))
	sb.WriteString(fmt.Sprintf("Scan Date: %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Packages:  %d\n", report.TotalFindings()))
	sb.WriteString("\n")
}

// writeSummary writes the risk summary section.
func (w *TextWriter) writeSummary(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RISK SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  POSSIBLE CONFUSION: %d\n", report.CountByRisk(model.RiskPossibleConfusion)))
	sb.WriteString(fmt.Sprintf("  UNKNOWN:            %d\n", report.CountByRisk(model.RiskUnknown)))
	sb.WriteString(fmt.Sprintf("  NO RISK:            %d\n", report.CountByRisk(model.RiskNone)))
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by risk, confusable first.
func (w *TextWriter) writeFindings(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, risk := range riskOrder {
		findings := report.FindingsByRisk(risk)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForRisk(sb, risk, findings)
	}
}

// writeFindingsForRisk writes the findings of one risk group.
func (w *TextWriter) writeFindingsForRisk(sb *strings.Builder, risk model.Risk, findings []model.Finding) {
	sb.WriteString(fmt.Sprintf("[%s] %s\n", risk.Label(), strings.ToUpper(risk.String())))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, f := range findings {
		sb.WriteString(fmt.Sprintf("  * %-6s %s", f.Package.Ecosystem, f.Package.Name))
		if f.Package.Version != "" {
			sb.WriteString("@" + f.Package.Version)
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Registry: %s\n", f.Status))
		if f.Note != "" {
			sb.WriteString(fmt.Sprintf("    Note: %s\n", f.Note))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sbomconfusion\n")
	sb.WriteString("https://github.com/NordCoderd/sbomconfusion\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
