package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and pull request comments.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("Dependency Confusion Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + report.Input + "`"},
			{"Scan Date", report.ScannedAt.Format("2006-01-02 15:04:05 MST")},
			{"Packages", strconv.Itoa(report.TotalFindings())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the risk summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Risk Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Risk", "Count"},
		Rows: [][]string{
			{"🔴 Possible Confusion", strconv.Itoa(report.CountByRisk(model.RiskPossibleConfusion))},
			{"🟡 Unknown", strconv.Itoa(report.CountByRisk(model.RiskUnknown))},
			{"🟢 No Risk", strconv.Itoa(report.CountByRisk(model.RiskNone))},
			{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if report.TotalFindings() > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for risk distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ScanReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Package Risk Distribution"),
		piechart.WithShowData(true),
	)

	if n := report.CountByRisk(model.RiskPossibleConfusion); n > 0 {
		chart.LabelAndIntValue("Possible Confusion", uint64(n))
	}
	if n := report.CountByRisk(model.RiskUnknown); n > 0 {
		chart.LabelAndIntValue("Unknown", uint64(n))
	}
	if n := report.CountByRisk(model.RiskNone); n > 0 {
		chart.LabelAndIntValue("No Risk", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on risk counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.ScanReport) {
	switch {
	case report.HasConfusable():
		md.Cautionf(
			"Possible dependency confusion detected! %d package(s) resolve to a name that could be hijacked in the public registry.",
			report.CountByRisk(model.RiskPossibleConfusion),
		)
	case report.CountByRisk(model.RiskUnknown) > 0:
		md.Warningf(
			"%d package(s) could not be verified against the public registry. Re-run the scan or check them manually.",
			report.CountByRisk(model.RiskUnknown),
		)
	default:
		md.Tip("All packages are claimed in their public registries. No confusion risk detected.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by risk.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.ScanReport) {
	md.H2("Findings")
	md.PlainText("")

	if report.TotalFindings() == 0 {
		md.PlainText("No packages were scanned.")
		md.PlainText("")
		return
	}

	risks := []struct {
		level  model.Risk
		header string
	}{
		{model.RiskPossibleConfusion, "### 🔴 Possible Confusion"},
		{model.RiskUnknown, "### 🟡 Unknown"},
		{model.RiskNone, "### 🟢 No Risk"},
	}

	for _, risk := range risks {
		findings := report.FindingsByRisk(risk.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(risk.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Ecosystem", "Package", "Version", "Registry", "Note"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		version := f.Package.Version
		if version == "" {
			version = "-"
		}
		note := f.Note
		if note == "" {
			note = "-"
		}

		rows[i] = []string{
			strings.ToUpper(string(f.Package.Ecosystem)),
			"`" + f.Package.Name + "`",
			version,
			f.Status.String(),
			truncateString(note, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sbomconfusion](https://github.com/NordCoderd/sbomconfusion)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
