package probe

import (
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/DOVA00/checking-links/internal/config"
)

// Prober runs the individual checks. A Prober is safe for concurrent use;
// its fields are read-only after New returns.
type Prober struct {
	// client sends the HEAD requests of the page existence probes.
	// Redirects are followed.
	client *http.Client

	// tlsConfig is the base configuration for the certificate check.
	// ServerName is filled in per connection.
	tlsConfig *tls.Config

	tlsTimeout   time.Duration
	probeTimeout time.Duration
	attempts     int
	backoff      time.Duration
	userAgent    string

	// classifier answers the malicious-URL check. Nil means no classifier
	// is configured and every URL is treated as safe.
	classifier Classifier

	// sites holds per-host headers, user agents and extra paths.
	sites *config.File

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithHTTPClient sets the client used for page existence probes.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prober) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTLSConfig sets the base TLS configuration for the certificate check,
// e.g. to trust a private CA in tests.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(p *Prober) {
		p.tlsConfig = cfg
	}
}

// WithTLSTimeout bounds the dial and handshake of the certificate check.
func WithTLSTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.tlsTimeout = d
		}
	}
}

// WithProbeTimeout bounds each HEAD request.
func WithProbeTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.probeTimeout = d
		}
	}
}

// WithAttempts sets how many rounds a path list is tried.
func WithAttempts(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.attempts = n
		}
	}
}

// WithBackoff sets the wait between two rounds of a path list.
func WithBackoff(d time.Duration) Option {
	return func(p *Prober) {
		if d >= 0 {
			p.backoff = d
		}
	}
}

// WithUserAgent sets the User-Agent header of existence probes.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithClassifier sets the malicious-URL classifier.
func WithClassifier(c Classifier) Option {
	return func(p *Prober) {
		p.classifier = c
	}
}

// WithSiteConfigs sets per-host probe settings.
func WithSiteConfigs(sites *config.File) Option {
	return func(p *Prober) {
		p.sites = sites
	}
}

// WithClock replaces time.Now for certificate expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// New creates a Prober with the package defaults.
func New(opts ...Option) *Prober {
	p := &Prober{
		tlsTimeout:   config.DefaultTLSTimeout,
		probeTimeout: config.DefaultProbeTimeout,
		attempts:     config.DefaultProbeAttempts,
		backoff:      config.DefaultProbeBackoff,
		userAgent:    config.DefaultUserAgent,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = newHTTPClient(p.tlsConfig)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// NewFromConfig creates a Prober from the application configuration.
func NewFromConfig(cfg *config.Config, classifier Classifier, logger *slog.Logger) *Prober {
	return New(
		WithTLSTimeout(cfg.TLSTimeout),
		WithProbeTimeout(cfg.ProbeTimeout),
		WithAttempts(cfg.ProbeAttempts),
		WithBackoff(cfg.ProbeBackoff),
		WithUserAgent(cfg.UserAgent),
		WithClassifier(classifier),
		WithSiteConfigs(cfg.SiteConfigs),
		WithLogger(logger),
	)
}

// Attempts returns the configured number of rounds for path probes.
func (p *Prober) Attempts() int {
	return p.attempts
}

// newHTTPClient returns a client that follows redirects (the net/http
// default of at most 10) and optionally trusts tlsConfig.
func newHTTPClient(tlsConfig *tls.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig.Clone()
	}
	return &http.Client{Transport: transport}
}
