package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/DOVA00/checking-links/internal/model"
)

// MarkdownWriter outputs evaluations in Markdown format for documentation
// and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

var levelEmoji = map[model.TrustLevel]string{
	model.TrustLevelVeryHigh:  "🟢",
	model.TrustLevelHigh:      "🔵",
	model.TrustLevelMedium:    "🟡",
	model.TrustLevelLow:       "🟠",
	model.TrustLevelDangerous: "🔴",
}

// Write outputs the evaluation in Markdown format.
func (w *MarkdownWriter) Write(eval *model.TextEvaluation) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := model.NewSummary(eval.Results)

	w.writeHeader(md, eval, summary)
	w.writeSummary(md, summary)
	w.writeResults(md, eval.Results)
	w.writeDiagnostics(md, eval.Results)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, eval *model.TextEvaluation, summary *model.Summary) {
	md.H1("Link Trust Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URLs Found", strconv.Itoa(eval.ExtractedCount)},
			{"URLs Evaluated", strconv.Itoa(eval.EvaluatedCount)},
			{"Average Score", fmt.Sprintf("%.1f", summary.AverageScore)},
			{"Flagged Unsafe", strconv.Itoa(summary.Unsafe)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Trust Levels")
	md.PlainText("")

	rows := make([][]string, 0, len(model.AllTrustLevels())+1)
	for _, level := range model.AllTrustLevels() {
		rows = append(rows, []string{
			levelEmoji[level] + " " + levelLabel(level),
			strconv.Itoa(summary.Count(level)),
		})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Total) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Level", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Trust Level Distribution"),
		piechart.WithShowData(true),
	)

	for _, level := range model.AllTrustLevels() {
		if n := summary.Count(level); n > 0 {
			chart.LabelAndIntValue(levelLabel(level), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert picks the alert for the least trustworthy result.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	if summary.Total == 0 {
		md.Note("No URLs were evaluated.")
		md.PlainText("")
		return
	}

	switch summary.Worst {
	case model.TrustLevelDangerous:
		md.Cautionf(
			"Dangerous links detected! %d link(s) should not be visited or shared.",
			summary.Count(model.TrustLevelDangerous),
		)
	case model.TrustLevelLow:
		md.Warningf(
			"Low trust links detected. %d link(s) lack basic trust signals.",
			summary.Count(model.TrustLevelLow),
		)
	case model.TrustLevelMedium:
		md.Importantf(
			"%d link(s) are missing several trust signals.",
			summary.Count(model.TrustLevelMedium),
		)
	case model.TrustLevelHigh:
		md.Note("All links are at least of high trust.")
	default:
		md.Tip("Every link passed nearly all checks.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []*model.EvaluationResult) {
	md.H2("Results")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No URLs evaluated.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		missing := "-"
		if failed := failedChecks(r); len(failed) > 0 {
			missing = strings.Join(failed, ", ")
		}
		rows[i] = []string{
			"`" + truncateString(r.URL, 60) + "`",
			fmt.Sprintf("%.0f", r.Score),
			levelEmoji[r.Level] + " " + levelLabel(r.Level),
			missing,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Score", "Level", "Missing"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDiagnostics lists checks that could not be observed, per URL.
func (w *MarkdownWriter) writeDiagnostics(md *markdown.Markdown, results []*model.EvaluationResult) {
	var items []string
	for _, r := range results {
		for _, name := range model.AllChecks() {
			d, ok := r.Diagnostics[name]
			if !ok || d.Status != model.StatusFailed {
				continue
			}
			items = append(items, fmt.Sprintf("`%s` %s: %s", r.URL, name, d.Reason))
		}
	}
	if len(items) == 0 {
		return
	}

	md.H2("Failed Checks")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [checklinks](https://github.com/DOVA00/checking-links)*")
}
