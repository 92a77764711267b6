package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DOVA00/checking-links/internal/cache"
	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/database"
	applog "github.com/DOVA00/checking-links/internal/log"
	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/pipeline"
	"github.com/DOVA00/checking-links/internal/probe"
	"github.com/DOVA00/checking-links/internal/report"
	"github.com/DOVA00/checking-links/internal/safebrowsing"
)

// addEvaluationFlags registers the flags shared by every command that
// evaluates URLs.
func addEvaluationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .checklinks in current or home directory)")
	cmd.Flags().Duration("tls-timeout", config.DefaultTLSTimeout,
		"Timeout for the TLS certificate check")
	cmd.Flags().DurationP("timeout", "t", config.DefaultProbeTimeout,
		"Timeout for each contact and privacy page request")
	cmd.Flags().Int("attempts", config.DefaultProbeAttempts,
		"Rounds over the contact and privacy paths before giving up")
	cmd.Flags().Duration("backoff", config.DefaultProbeBackoff,
		"Wait between two rounds of page probes")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent sent with page probes")
	cmd.Flags().IntP("concurrency", "C", config.DefaultConcurrency,
		"Number of URLs evaluated at the same time")
	cmd.Flags().IntP("max", "n", config.DefaultMaxEvaluations,
		"Maximum number of URLs evaluated per run")
}

// addReportFlags registers the output and history flags of check and text.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --pdf)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --pdf)")
	cmd.Flags().Bool("pdf", false,
		"Write a PDF report (requires --output)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("details", "d", false,
		"Show every check and failure reason in the text report")
	cmd.Flags().Bool("no-color", false,
		"Disable coloured output")
	cmd.Flags().Bool("no-save", false,
		"Do not record results in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the environment and the
// command's flags, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.DefaultEnvFile, err)
	}
	cfg.ApplyEnv()
	cfg.Verbose = getVerboseFlag(cmd)

	if cmd.Flags().Lookup("tls-timeout") != nil {
		if err := applyEvaluationFlags(cmd, cfg); err != nil {
			return nil, err
		}
		if err := loadSiteConfigs(cfg); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Lookup("pdf") != nil {
		if err := applyReportFlags(cmd, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	return cfg, nil
}

func applyEvaluationFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return err
	}
	if cfg.TLSTimeout, err = flags.GetDuration("tls-timeout"); err != nil {
		return err
	}
	if cfg.ProbeTimeout, err = flags.GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.ProbeAttempts, err = flags.GetInt("attempts"); err != nil {
		return err
	}
	if cfg.ProbeBackoff, err = flags.GetDuration("backoff"); err != nil {
		return err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return err
	}
	if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
		return err
	}
	if cfg.MaxEvaluations, err = flags.GetInt("max"); err != nil {
		return err
	}
	return nil
}

func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.PDFReport, err = flags.GetBool("pdf"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	if cfg.DetailedReport, err = flags.GetBool("details"); err != nil {
		return err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noSave

	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	return nil
}

// loadSiteConfigs reads the per-site probe settings.
// An explicitly given file must exist; otherwise a missing file means no
// site settings.
func loadSiteConfigs(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case path != "":
		sites, err := config.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.SiteConfigs = sites
	case explicit:
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = config.NewFile()
	}
	return nil
}

// setupLogger creates the secure structured logger for the CLI.
func setupLogger(verbose bool) *slog.Logger {
	return applog.NewSecureLogger(os.Stderr, verbose)
}

// newEvaluator wires the prober, the optional Safe Browsing client, the
// check pipeline and the result cache.
func newEvaluator(cfg *config.Config, logger *slog.Logger) *pipeline.Evaluator {
	var classifier probe.Classifier
	client, err := safebrowsing.NewFromConfig(cfg, logger)
	switch {
	case err == nil:
		classifier = client
	case errors.Is(err, safebrowsing.ErrNoAPIKey):
		logger.Debug("safe browsing disabled: no API key configured")
	default:
		logger.Warn("safe browsing disabled", "error", err)
	}

	prober := probe.NewFromConfig(cfg, classifier, logger)
	resultCache := cache.New(cache.WithTTL(cfg.CacheTTL))

	return pipeline.NewEvaluator(
		pipeline.DefaultPipeline(prober, logger),
		resultCache,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithMaxEvaluations(cfg.MaxEvaluations),
		pipeline.WithEvaluatorLogger(logger),
	)
}

// outputReport writes eval in the requested format to the report file or
// to stdout.
func outputReport(cfg *config.Config, eval *model.TextEvaluation, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list every URL a user checked; keep them private.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.PDFReport:
		writer = report.NewPDFWriter(output)
	default:
		writer = report.NewSimpleWriter(output,
			report.WithVerbose(cfg.DetailedReport),
			report.WithNoColor(cfg.NoColor || cfg.ReportFile != ""),
		)
	}

	if _, err := writer.Write(eval); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveResults records results in the history database when enabled.
func saveResults(ctx context.Context, cfg *config.Config, results []*model.EvaluationResult, logger *slog.Logger) error {
	if !cfg.SaveToDB || len(results) == 0 {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveEvaluations(ctx, results); err != nil {
		return err
	}

	logger.Info("evaluations saved to database", "count", len(results), "path", db.Path())
	return nil
}
