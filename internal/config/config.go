package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "checklinks"

	// DefaultTLSTimeout bounds the TLS dial and handshake of the
	// certificate check.
	DefaultTLSTimeout = 5 * time.Second

	// DefaultProbeTimeout bounds each HEAD request of the page existence
	// probes.
	DefaultProbeTimeout = 3 * time.Second

	// DefaultProbeAttempts is the number of rounds over a path list before
	// a page is reported missing.
	DefaultProbeAttempts = 2

	// DefaultProbeBackoff is the wait between two rounds of a path list.
	DefaultProbeBackoff = 1 * time.Second

	// DefaultUserAgent is sent with every existence probe. Some sites reject
	// requests without a browser-like agent.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultMaxEvaluations caps the number of URLs evaluated per request.
	DefaultMaxEvaluations = 50

	// DefaultConcurrency is the number of URLs evaluated at the same time.
	DefaultConcurrency = 10

	// DefaultCacheTTL is how long an evaluation is reused.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultSweepInterval is how often stale cache entries are removed.
	DefaultSweepInterval = time.Hour

	// DefaultSafeBrowsingEndpoint is the Google Safe Browsing v4 lookup API.
	DefaultSafeBrowsingEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

	// DefaultSafeBrowsingTimeout bounds one Safe Browsing lookup.
	DefaultSafeBrowsingTimeout = 5 * time.Second

	// DefaultSafeBrowsingRPS limits Safe Browsing lookups per second.
	DefaultSafeBrowsingRPS = 10.0

	// DefaultListenAddr is the address the API server binds to.
	DefaultListenAddr = ":8080"

	// DefaultMaxUploadSize is the largest document accepted by the
	// file endpoint and the text command.
	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB

	// DefaultRateLimitRPS and DefaultRateLimitBurst bound API requests per
	// client address.
	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 20

	// DefaultCORSOrigin allows any origin to call the API.
	DefaultCORSOrigin = "*"

	// DefaultSentryEnvironment tags events sent to Sentry.
	DefaultSentryEnvironment = "production"
)

// Config holds all configuration options for checklinks.
// It is populated from defaults, the .env file, environment variables and
// CLI flags (in that order) and passed down explicitly; there is no global
// configuration.
type Config struct {
	// Targets is the list of URLs to evaluate with the check command.
	Targets []string

	// TLSTimeout bounds the certificate check.
	TLSTimeout time.Duration

	// ProbeTimeout bounds each page existence request.
	ProbeTimeout time.Duration

	// ProbeAttempts is the number of rounds for page existence probes.
	ProbeAttempts int

	// ProbeBackoff is the wait between rounds of page existence probes.
	ProbeBackoff time.Duration

	// UserAgent is the User-Agent header sent with existence probes.
	UserAgent string

	// MaxEvaluations caps how many URLs one request evaluates.
	MaxEvaluations int

	// Concurrency is the number of URLs evaluated at the same time.
	Concurrency int

	// CacheTTL is how long an evaluation result is reused.
	CacheTTL time.Duration

	// SweepInterval is how often stale cache entries are removed.
	SweepInterval time.Duration

	// SafeBrowsingAPIKey enables the Google Safe Browsing check. When empty,
	// every URL is treated as safe by that check.
	SafeBrowsingAPIKey string

	// SafeBrowsingEndpoint is the lookup URL. Overridden in tests.
	SafeBrowsingEndpoint string

	// SafeBrowsingRPS limits lookups per second.
	SafeBrowsingRPS float64

	// ListenAddr is the address the API server binds to.
	ListenAddr string

	// MaxUploadSize is the largest accepted document in bytes.
	MaxUploadSize int64

	// RateLimitRPS and RateLimitBurst bound requests per client address.
	// A zero RateLimitRPS disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// CORSOrigin is the value of Access-Control-Allow-Origin.
	CORSOrigin string

	// SentryDSN enables error reporting to Sentry when set.
	SentryDSN string

	// SentryEnvironment tags events sent to Sentry.
	SentryEnvironment string

	// DBDir is the directory of the evaluation history database.
	// Defaults to the XDG data directory (~/.local/share/checklinks on Linux).
	DBDir string

	// SaveToDB records every evaluation in the history database.
	SaveToDB bool

	// JSONReport, MarkdownReport and PDFReport select the report format.
	// They are mutually exclusive; the default is a human-readable summary.
	JSONReport     bool
	MarkdownReport bool
	PDFReport      bool

	// ReportFile is the output path for the report. Empty means stdout,
	// except for PDF reports which always need a file.
	ReportFile string

	// DetailedReport lists every check and failure reason in the text report.
	DetailedReport bool

	// NoColor disables coloured terminal output.
	NoColor bool

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .checklinks is searched in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-host probe settings loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		TLSTimeout:           DefaultTLSTimeout,
		ProbeTimeout:         DefaultProbeTimeout,
		ProbeAttempts:        DefaultProbeAttempts,
		ProbeBackoff:         DefaultProbeBackoff,
		UserAgent:            DefaultUserAgent,
		MaxEvaluations:       DefaultMaxEvaluations,
		Concurrency:          DefaultConcurrency,
		CacheTTL:             DefaultCacheTTL,
		SweepInterval:        DefaultSweepInterval,
		SafeBrowsingEndpoint: DefaultSafeBrowsingEndpoint,
		SafeBrowsingRPS:      DefaultSafeBrowsingRPS,
		ListenAddr:           DefaultListenAddr,
		MaxUploadSize:        DefaultMaxUploadSize,
		RateLimitRPS:         DefaultRateLimitRPS,
		RateLimitBurst:       DefaultRateLimitBurst,
		CORSOrigin:           DefaultCORSOrigin,
		SentryEnvironment:    DefaultSentryEnvironment,
		SiteConfigs:          NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for checklinks.
// On Linux: ~/.local/share/checklinks
// On macOS: ~/Library/Application Support/checklinks
// On Windows: %LOCALAPPDATA%\checklinks
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for checklinks.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in
// errors.go. Targets are not checked here because only the check command
// needs them.
func (c *Config) Validate() error {
	if c.TLSTimeout <= 0 || c.ProbeTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.ProbeAttempts <= 0 {
		return ErrInvalidProbeAttempts
	}

	if c.ProbeBackoff < 0 {
		return ErrInvalidBackoff
	}

	if c.MaxEvaluations <= 0 {
		return ErrInvalidMaxEvaluations
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.CacheTTL <= 0 || c.SweepInterval <= 0 {
		return ErrInvalidCacheTTL
	}

	if c.MaxUploadSize <= 0 {
		return ErrInvalidMaxUploadSize
	}

	if c.RateLimitRPS < 0 || (c.RateLimitRPS > 0 && c.RateLimitBurst <= 0) {
		return ErrInvalidRateLimit
	}

	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.PDFReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.PDFReport && c.ReportFile == "" {
		return ErrPDFNeedsFile
	}

	return nil
}
