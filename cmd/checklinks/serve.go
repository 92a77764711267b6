package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/errreport"
	applog "github.com/DOVA00/checking-links/internal/log"
	"github.com/DOVA00/checking-links/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve runs the link evaluation HTTP API.

Endpoints:
  GET  /api/check?link=URL         Evaluate one URL
  GET  /api/stats                  Number of cached results and their mean score
  POST /api/advanced/check-text    Evaluate every URL in {"text": "..."}
  POST /api/advanced/check-file    Evaluate every URL in an uploaded "file"

Results are cached in memory for 24 hours. Set CHECKLINKS_SENTRY_DSN to
report unexpected errors to Sentry.

Examples:
  # Listen on the default address (:8080)
  checklinks serve

  # Listen on localhost only and allow one web origin
  checklinks serve -l 127.0.0.1:9000 --cors-origin https://app.example.com`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"Address to listen on")
	cmd.Flags().String("cors-origin", config.DefaultCORSOrigin,
		"Value of the Access-Control-Allow-Origin header")
	cmd.Flags().Float64("rate-limit", config.DefaultRateLimitRPS,
		"Requests per second allowed per client (0 disables)")
	cmd.Flags().Int("rate-burst", config.DefaultRateLimitBurst,
		"Burst of requests allowed per client")
	cmd.Flags().Int64("max-size", config.DefaultMaxUploadSize,
		"Largest accepted upload in bytes")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long an evaluation is reused")
	cmd.Flags().Bool("json-logs", false,
		"Write logs as JSON")
	cmd.Flags().Bool("no-banner", false,
		"Do not print the start-up banner")
	addEvaluationFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	jsonLogs, err := cmd.Flags().GetBool("json-logs")
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Verbose)
	if jsonLogs {
		logger = applog.NewSecureJSONLogger(os.Stderr, cfg.Verbose)
	}
	slog.SetDefault(logger)

	if errreport.Init(errreport.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     getVersion(),
	}, logger) {
		defer errreport.Flush()
	}

	noBanner, err := cmd.Flags().GetBool("no-banner")
	if err != nil {
		return err
	}
	if !noBanner {
		printBanner(cmd.OutOrStdout(), cfg)
	}

	srv := server.NewFromConfig(cfg, newEvaluator(cfg, logger), logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		errreport.CaptureError(err, map[string]string{"component": "server"})
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if flags.Changed("listen") {
		if cfg.ListenAddr, err = flags.GetString("listen"); err != nil {
			return err
		}
	}
	if cfg.CORSOrigin, err = flags.GetString("cors-origin"); err != nil {
		return err
	}
	if cfg.RateLimitRPS, err = flags.GetFloat64("rate-limit"); err != nil {
		return err
	}
	if cfg.RateLimitBurst, err = flags.GetInt("rate-burst"); err != nil {
		return err
	}
	if cfg.MaxUploadSize, err = flags.GetInt64("max-size"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
		return err
	}
	return nil
}

// printBanner writes the start-up banner and the effective settings.
func printBanner(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, figure.NewFigure("checklinks", "doom", true).String())

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	rule := "════════════════════════════════════════════════"

	_, _ = cyan.Fprintln(w, rule)
	_, _ = green.Fprintf(w, "  Link trust API %s listening on %s\n", getVersion(), cfg.ListenAddr)
	safeBrowsing := "disabled"
	if cfg.SafeBrowsingAPIKey != "" {
		safeBrowsing = "enabled"
	}
	_, _ = green.Fprintf(w, "  Safe Browsing: %s | cache TTL: %s\n", safeBrowsing, cfg.CacheTTL)
	_, _ = cyan.Fprintln(w, rule)
}
