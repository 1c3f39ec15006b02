package report

import (
	"encoding/json"
	"io"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// version is recorded in the output wrapper so consumers know which
	// tool release produced the document.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithVersion records the tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps the report with output metadata.
//
// Design decision: We wrap the report rather than modifying ScanReport
// because this allows output-specific fields without polluting the core
// data structure.
type JSONReport struct {
	// Version is the sbomconfusion version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the full scan report.
	Report *model.ScanReport `json:"report"`

	// Summary holds per-risk counts for quick access.
	Summary map[string]int `json:"summary"`
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	wrapped := JSONReport{
		Version: w.version,
		Report:  report,
		Summary: map[string]int{
			model.RiskPossibleConfusion.String(): report.CountByRisk(model.RiskPossibleConfusion),
			model.RiskUnknown.String():           report.CountByRisk(model.RiskUnknown),
			model.RiskNone.String():              report.CountByRisk(model.RiskNone),
		},
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(wrapped, "", "  ")
	} else {
		data, err = json.Marshal(wrapped)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
