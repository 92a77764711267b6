package report

import (
	"encoding/json"
	"io"

	"github.com/DOVA00/checking-links/internal/model"
)

// JSONWriter outputs evaluations in JSON format, using the same field names
// as the HTTP API.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
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

// Write outputs the evaluation in JSON format.
func (w *JSONWriter) Write(eval *model.TextEvaluation) (int, error) {
	return w.writeJSON(eval)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps an evaluation with the tool version and a summary.
type JSONReport struct {
	// Version is the checklinks version that generated this report.
	Version string `json:"version"`

	// Summary rolls up the results.
	Summary *model.Summary `json:"summary"`

	// Evaluation is the full evaluation.
	Evaluation *model.TextEvaluation `json:"evaluation"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(eval *model.TextEvaluation, version string) *JSONReport {
	return &JSONReport{
		Version:    version,
		Summary:    model.NewSummary(eval.Results),
		Evaluation: eval,
	}
}

// FullJSONWriter outputs evaluations with the metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for evaluations with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the evaluation wrapped with metadata.
func (w *FullJSONWriter) Write(eval *model.TextEvaluation) (int, error) {
	return w.writeJSON(NewJSONReport(eval, w.version))
}
