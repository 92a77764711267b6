package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/document"
)

// stdinName marks text read from standard input.
const stdinName = "-"

// NewTextCmd creates the text command.
func NewTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [text... | -]",
		Short: "Evaluate every URL found in a text or document",
		Long: `Text extracts URLs from free text or a document and evaluates them.

URLs with a scheme and bare domains such as example.com are both found.
Domains that are part of an e-mail address are ignored.

Supported documents: .txt, .html, .htm, .docx and .pdf (up to 10MB).

Examples:
  # Evaluate links in a message
  checklinks text "Claim your prize at prize-example.com or https://example.org"

  # Read the text from standard input
  pbpaste | checklinks text -

  # Evaluate links in a document
  checklinks text --file newsletter.docx --json`,
		Args: cobra.ArbitraryArgs,
		RunE: runTextCmd,
	}

	cmd.Flags().StringP("file", "f", "",
		"Read a document (.txt, .html, .htm, .docx, .pdf) instead of arguments")
	cmd.Flags().Int64("max-size", config.DefaultMaxUploadSize,
		"Largest accepted document in bytes")
	addEvaluationFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runTextCmd executes the text command.
func runTextCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.MaxUploadSize, err = cmd.Flags().GetInt64("max-size"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	text, err := readInput(cmd, cfg, file, args, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runText(ctx, cmd, cfg, text, logger)
}

// readInput returns the text to scan: a document, standard input or the
// joined arguments.
func readInput(cmd *cobra.Command, cfg *config.Config, file string, args []string, logger *slog.Logger) (string, error) {
	extractor := document.NewExtractor(
		document.WithMaxSize(cfg.MaxUploadSize),
		document.WithLogger(logger),
	)

	switch {
	case file != "" && len(args) > 0:
		return "", errors.New("use either --file or text arguments, not both")
	case file != "":
		f, err := os.Open(file) //nolint:gosec // User-provided path is intentional
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()

		size := int64(-1)
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		return extractor.Extract(file, f, size)
	case len(args) == 1 && args[0] == stdinName:
		return extractor.Extract("stdin.txt", cmd.InOrStdin(), -1)
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return "", fmt.Errorf("no text given: pass text, %q for standard input or --file", stdinName)
	}
}

// runText evaluates every URL in text, writes the report and saves the
// results.
func runText(ctx context.Context, cmd *cobra.Command, cfg *config.Config, text string, logger *slog.Logger) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text given: %w", document.ErrEmpty)
	}

	evaluator := newEvaluator(cfg, logger)
	eval, err := evaluator.EvaluateText(ctx, text, cfg.MaxEvaluations)
	if err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}

	if eval.ExtractedCount == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No links found.")
	}

	if err := outputReport(cfg, eval, cmd.OutOrStdout()); err != nil {
		return err
	}

	if err := saveResults(ctx, cfg, eval.Results, logger); err != nil {
		logger.Error("failed to save evaluations", "error", err)
	}
	return nil
}
