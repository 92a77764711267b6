package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/normalize"
	"github.com/DOVA00/checking-links/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>...",
		Short: "Evaluate one or more URLs",
		Long: `Check evaluates the given URLs and prints a trust report.

A URL without a scheme is checked as https. Invalid URLs are reported and
skipped. At most --max URLs are evaluated per run.

Examples:
  # Check a single site
  checklinks check example.com

  # Check several sites and write a Markdown report
  checklinks check -m -o report.md example.com https://example.org

  # Show every check and why it failed
  checklinks check -d http://example.net

  # Enable Google Safe Browsing
  CHECKLINKS_SAFE_BROWSING_API_KEY=... checklinks check example.com

Configuration file (.checklinks) example:
  sites:
    example.com:
      cookie: "consent=yes"
      contactPaths:
        - /impressum`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	addEvaluationFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Targets = args

	if len(cfg.Targets) == 0 {
		return config.ErrNoTarget
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cmd, cfg, logger)
}

// runCheck evaluates cfg.Targets, writes the report and saves the results.
func runCheck(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		if _, err := normalize.Normalize(target); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %v\n", err)
		}
	}

	evaluator := newEvaluator(cfg, logger)
	results, err := evaluator.EvaluateBatch(ctx, cfg.Targets, cfg.MaxEvaluations)
	if err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}

	if err := outputReport(cfg, report.FromResults(len(cfg.Targets), results), cmd.OutOrStdout()); err != nil {
		return err
	}

	if err := saveResults(ctx, cfg, results, logger); err != nil {
		logger.Error("failed to save evaluations", "error", err)
	}
	return nil
}
