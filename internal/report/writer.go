package report

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DOVA00/checking-links/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the evaluation to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(eval *model.TextEvaluation) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the evaluation to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(eval *model.TextEvaluation) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(eval)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// FromResults wraps results that did not come from a text, e.g. URLs given
// on the command line, so they can be written by any Writer.
func FromResults(extracted int, results []*model.EvaluationResult) *model.TextEvaluation {
	if results == nil {
		results = []*model.EvaluationResult{}
	}
	return &model.TextEvaluation{
		ExtractedCount: extracted,
		EvaluatedCount: len(results),
		Results:        results,
	}
}

var titleCaser = cases.Title(language.English)

// levelLabel renders a level for people: VERY_HIGH becomes "Very High".
func levelLabel(level model.TrustLevel) string {
	words := strings.ReplaceAll(strings.ToLower(level.String()), "_", " ")
	return titleCaser.String(words)
}

// checkValue renders a check outcome compactly for tables.
func checkValue(o model.Outcome) string {
	if o.IsNumeric() {
		if o.Int() == model.UnknownAgeMonths {
			return "unknown"
		}
		return strconv.Itoa(o.Int()) + " months"
	}
	if o.Bool() {
		return "yes"
	}
	return "no"
}

// failedChecks lists the checks of r that came out false, in display order.
func failedChecks(r *model.EvaluationResult) []string {
	var out []string
	for _, name := range model.AllChecks() {
		o, ok := r.Checks[name]
		if !ok || o.IsNumeric() {
			continue
		}
		if !o.Bool() {
			out = append(out, string(name))
		}
	}
	return out
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
