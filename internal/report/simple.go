package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/DOVA00/checking-links/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display,
// with the trust level of every result coloured.
type SimpleWriter struct {
	baseWriter

	// verbose adds every check and its failure reason to each result.
	verbose bool

	// colors maps each level to its terminal colour.
	colors map[model.TrustLevel]*color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithNoColor disables ANSI colours even on a terminal.
func WithNoColor(noColor bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if !noColor {
			return
		}
		for _, c := range w.colors {
			c.DisableColor()
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
// Colours follow fatih/color's terminal detection unless WithNoColor is set.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		colors: map[model.TrustLevel]*color.Color{
			model.TrustLevelVeryHigh:  color.New(color.FgGreen, color.Bold),
			model.TrustLevelHigh:      color.New(color.FgGreen),
			model.TrustLevelMedium:    color.New(color.FgYellow),
			model.TrustLevelLow:       color.New(color.FgRed),
			model.TrustLevelDangerous: color.New(color.FgRed, color.Bold),
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the evaluation in human-readable format.
func (w *SimpleWriter) Write(eval *model.TextEvaluation) (int, error) {
	var sb strings.Builder
	summary := model.NewSummary(eval.Results)

	w.writeHeader(&sb, eval, summary)
	w.writeSummary(&sb, summary)
	w.writeResults(&sb, eval.Results)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeRule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, eval *model.TextEvaluation, summary *model.Summary) {
	sb.WriteString("\n")
	w.writeRule(sb, "=")
	sb.WriteString("                         LINK TRUST REPORT\n")
	w.writeRule(sb, "=")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "URLs found:      %d\n", eval.ExtractedCount)
	fmt.Fprintf(sb, "URLs evaluated:  %d\n", eval.EvaluatedCount)
	if summary.Total > 0 {
		fmt.Fprintf(sb, "Average score:   %.1f (min %.0f, max %.0f)\n", summary.AverageScore, summary.MinScore, summary.MaxScore)
	}
	if summary.Unsafe > 0 {
		fmt.Fprintf(sb, "Flagged unsafe:  %d\n", summary.Unsafe)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *model.Summary) {
	w.writeRule(sb, "-")
	sb.WriteString("TRUST LEVELS\n")
	w.writeRule(sb, "-")
	sb.WriteString("\n")

	for _, level := range model.AllTrustLevels() {
		label := fmt.Sprintf("%-10s", level.String()+":")
		fmt.Fprintf(sb, "  %s %d\n", w.colors[level].Sprint(label), summary.Count(level))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeResults(sb *strings.Builder, results []*model.EvaluationResult) {
	w.writeRule(sb, "-")
	sb.WriteString("RESULTS\n")
	w.writeRule(sb, "-")
	sb.WriteString("\n")

	if len(results) == 0 {
		sb.WriteString("  No URLs evaluated\n\n")
		return
	}

	for _, r := range results {
		tag := w.colors[r.Level].Sprintf("[%-9s]", r.Level.String())
		fmt.Fprintf(sb, "%s %3.0f  %s\n", tag, r.Score, r.URL)

		if w.verbose {
			w.writeChecks(sb, r)
		} else if failed := failedChecks(r); len(failed) > 0 {
			fmt.Fprintf(sb, "            missing: %s\n", strings.Join(failed, ", "))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeChecks(sb *strings.Builder, r *model.EvaluationResult) {
	for _, name := range model.AllChecks() {
		o, ok := r.Checks[name]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "            %-17s %s", string(name)+":", checkValue(o))
		if !o.OK() && o.Reason != "" {
			fmt.Fprintf(sb, " (%s: %s)", o.Status, o.Reason)
		}
		sb.WriteString("\n")
	}
	info := model.GetLevelInfo(r.Level)
	fmt.Fprintf(sb, "            %s\n", info.Recommendation)
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	w.writeRule(sb, "=")
	sb.WriteString("Report generated by checklinks\n")
	sb.WriteString("https://github.com/DOVA00/checking-links\n")
	w.writeRule(sb, "=")
}
