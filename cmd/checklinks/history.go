package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/database"
	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/normalize"
	"github.com/DOVA00/checking-links/internal/report"
)

// Directions of a score change between two evaluations.
const (
	trendImproved  = "improved"
	trendWorsened  = "worsened"
	trendUnchanged = "unchanged"
)

// dateLayout is the format of --purge-before.
const dateLayout = "2006-01-02"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show stored evaluations and how scores changed",
		Long: `History shows the evaluations stored by check and text.

For a URL it lists every stored evaluation, newest first, and compares the
latest two: the score change and the checks that started or stopped
passing.

Examples:
  # Show the history of a URL
  checklinks history example.com

  # Show one stored evaluation in full
  checklinks history --id 12

  # List every URL in the database
  checklinks history --list-urls

  # Delete evaluations older than a date
  checklinks history --purge-before 2026-01-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-urls", "L", false,
		"List every URL with stored evaluations")
	cmd.Flags().Int64P("id", "i", 0,
		"Show the stored evaluation with this ID")
	cmd.Flags().String("purge-before", "",
		"Delete evaluations older than this date (format: YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// historyOptions are the parsed flags of the history command.
type historyOptions struct {
	url         string
	listURLs    bool
	id          int64
	purgeBefore string
	jsonOutput  bool
	dbDir       string
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd, args)
	if err != nil {
		return err
	}

	// Validate before opening the database so bad input never creates one.
	if !opts.listURLs && opts.id == 0 && opts.purgeBefore == "" && opts.url == "" {
		return errors.New("a URL is required (use --list-urls to see stored URLs)")
	}
	var purgeDate time.Time
	if opts.purgeBefore != "" {
		purgeDate, err = time.Parse(dateLayout, opts.purgeBefore)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case opts.purgeBefore != "":
		removed, err := db.PurgeBefore(ctx, purgeDate)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d evaluation(s) older than %s.\n", removed, opts.purgeBefore)
		return nil
	case opts.listURLs:
		return listEvaluatedURLs(ctx, out, db, opts.jsonOutput)
	case opts.id > 0:
		return showEvaluation(ctx, out, db, opts.id, opts.jsonOutput)
	default:
		return showHistory(ctx, out, db, opts.url, opts.jsonOutput)
	}
}

func parseHistoryFlags(cmd *cobra.Command, args []string) (*historyOptions, error) {
	var err error
	opts := &historyOptions{}
	flags := cmd.Flags()

	if opts.listURLs, err = flags.GetBool("list-urls"); err != nil {
		return nil, err
	}
	if opts.id, err = flags.GetInt64("id"); err != nil {
		return nil, err
	}
	if opts.purgeBefore, err = flags.GetString("purge-before"); err != nil {
		return nil, err
	}
	if opts.jsonOutput, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if opts.dbDir == "" {
		cfg := config.NewConfig()
		if err := config.LoadEnv(); err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		opts.dbDir = cfg.DBDir
		if opts.dbDir == "" {
			opts.dbDir = config.XDGDataDir()
		}
	}

	if len(args) == 1 {
		opts.url, err = normalize.Normalize(args[0])
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// listEvaluatedURLs prints every URL in the database.
func listEvaluatedURLs(ctx context.Context, out io.Writer, db *database.HistoryDB, jsonOutput bool) error {
	urls, err := db.ListEvaluatedURLs(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		if urls == nil {
			urls = []string{}
		}
		return writeIndentedJSON(out, urls)
	}

	if len(urls) == 0 {
		fmt.Fprintln(out, "No evaluations found in the database.")
		fmt.Fprintln(out, "\nUse 'checklinks check <url>' to evaluate a URL.")
		return nil
	}

	fmt.Fprintf(out, "Evaluated URLs (%d):\n\n", len(urls))
	for _, u := range urls {
		fmt.Fprintf(out, "  • %s\n", u)
	}
	fmt.Fprintln(out, "\nUse 'checklinks history <url>' to see the evaluations of a URL.")
	return nil
}

// showEvaluation prints one stored evaluation in full.
func showEvaluation(ctx context.Context, out io.Writer, db *database.HistoryDB, id int64, jsonOutput bool) error {
	result, err := db.EvaluationByID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("evaluation with ID %d not found", id)
	}

	eval := report.FromResults(1, []*model.EvaluationResult{result})
	if jsonOutput {
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).Write(eval)
		return err
	}
	_, err = report.NewSimpleWriter(out, report.WithVerbose(true), report.WithNoColor(true)).Write(eval)
	return err
}

// Comparison describes how the latest evaluation of a URL differs from the
// one before it.
type Comparison struct {
	// URL is the evaluated URL.
	URL string `json:"url"`

	// Previous and Current are the two compared evaluations.
	Previous EvaluationSummary `json:"previous"`
	Current  EvaluationSummary `json:"current"`

	// ScoreDelta is Current.Score minus Previous.Score.
	ScoreDelta float64 `json:"scoreDelta"`

	// Trend is "improved", "worsened" or "unchanged".
	Trend string `json:"trend"`

	// Gained lists the checks that pass now but did not before.
	Gained []model.CheckName `json:"gained,omitempty"`

	// Lost lists the checks that passed before but do not now.
	Lost []model.CheckName `json:"lost,omitempty"`
}

// EvaluationSummary identifies one stored evaluation.
type EvaluationSummary struct {
	ID        int64            `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Score     float64          `json:"score"`
	Level     model.TrustLevel `json:"level"`
}

// historyOutput is the JSON shape of the history command.
type historyOutput struct {
	URL         string              `json:"url"`
	Evaluations []EvaluationSummary `json:"evaluations"`
	Comparison  *Comparison         `json:"comparison,omitempty"`
}

func summarize(rec database.EvaluationRecord) EvaluationSummary {
	return EvaluationSummary{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		Score:     rec.Score,
		Level:     rec.Level,
	}
}

// compareEvaluations compares two stored results of the same URL.
func compareEvaluations(prevRec, curRec database.EvaluationRecord, previous, current *model.EvaluationResult) *Comparison {
	c := &Comparison{
		URL:        curRec.URL,
		Previous:   summarize(prevRec),
		Current:    summarize(curRec),
		ScoreDelta: curRec.Score - prevRec.Score,
	}

	switch {
	case c.ScoreDelta > 0:
		c.Trend = trendImproved
	case c.ScoreDelta < 0:
		c.Trend = trendWorsened
	default:
		c.Trend = trendUnchanged
	}

	for _, name := range model.AllChecks() {
		if name.IsNumeric() {
			continue
		}
		before := previous.Checks.Bool(name, false)
		after := current.Checks.Bool(name, false)
		switch {
		case after && !before:
			c.Gained = append(c.Gained, name)
		case before && !after:
			c.Lost = append(c.Lost, name)
		}
	}
	return c
}

// showHistory lists the evaluations of url and compares the latest two.
func showHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, url string, jsonOutput bool) error {
	records, err := db.History(ctx, url)
	if err != nil {
		return err
	}

	var comparison *Comparison
	if len(records) >= 2 {
		current, err := db.EvaluationByID(ctx, records[0].ID)
		if err != nil {
			return err
		}
		previous, err := db.EvaluationByID(ctx, records[1].ID)
		if err != nil {
			return err
		}
		if current != nil && previous != nil {
			comparison = compareEvaluations(records[1], records[0], previous, current)
		}
	}

	if jsonOutput {
		summaries := make([]EvaluationSummary, len(records))
		for i, rec := range records {
			summaries[i] = summarize(rec)
		}
		return writeIndentedJSON(out, historyOutput{URL: url, Evaluations: summaries, Comparison: comparison})
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No evaluations found for %s\n", url)
		fmt.Fprintln(out, "\nUse 'checklinks check' to evaluate this URL.")
		return nil
	}

	fmt.Fprintf(out, "Evaluation history for %s (%d evaluations):\n\n", url, len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %5s  %s\n", "ID", "Date", "Score", "Level")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 50))
	for _, rec := range records {
		fmt.Fprintf(out, "  %-6d  %-20s  %5.0f  %s\n",
			rec.ID,
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.Score,
			rec.Level,
		)
	}

	if comparison != nil {
		fmt.Fprintln(out)
		writeComparisonText(out, comparison)
	}
	return nil
}

func writeComparisonText(out io.Writer, c *Comparison) {
	fmt.Fprintf(out, "Latest change: %s (%+.0f, %s -> %s)\n",
		c.Trend, c.ScoreDelta, c.Previous.Level, c.Current.Level)
	if len(c.Gained) > 0 {
		fmt.Fprintf(out, "  now passing: %s\n", joinChecks(c.Gained))
	}
	if len(c.Lost) > 0 {
		fmt.Fprintf(out, "  now failing: %s\n", joinChecks(c.Lost))
	}
}

func joinChecks(names []model.CheckName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
