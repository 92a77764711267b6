package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DOVA00/checking-links/internal/cache"
	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/document"
	"github.com/DOVA00/checking-links/internal/errreport"
	"github.com/DOVA00/checking-links/internal/pipeline"
)

const (
	// shutdownTimeout bounds graceful shutdown after the context ends.
	shutdownTimeout = 10 * time.Second

	// readHeaderTimeout protects against slow-header clients.
	readHeaderTimeout = 10 * time.Second

	// multipartOverhead is allowed on top of the document size for the
	// multipart envelope of an upload.
	multipartOverhead = 1 << 20
)

// Server serves the evaluation API.
type Server struct {
	evaluator *pipeline.Evaluator
	extractor *document.Extractor

	addr          string
	corsOrigin    string
	maxUploadSize int64
	sweepInterval time.Duration

	limiter *clientLimiter
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithCORSOrigin sets the Access-Control-Allow-Origin value.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.corsOrigin = origin
		}
	}
}

// WithMaxUploadSize sets the largest accepted document in bytes.
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadSize = n
		}
	}
}

// WithRateLimit allows rps requests per second per client with the given
// burst. A zero rps disables rate limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(rps, burst)
	}
}

// WithSweepInterval sets how often stale cache entries are removed while
// the server runs.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithClock sets the time source used for processing timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server around evaluator.
func New(evaluator *pipeline.Evaluator, opts ...Option) *Server {
	s := &Server{
		evaluator:     evaluator,
		addr:          config.DefaultListenAddr,
		corsOrigin:    config.DefaultCORSOrigin,
		maxUploadSize: config.DefaultMaxUploadSize,
		sweepInterval: config.DefaultSweepInterval,
		limiter:       newClientLimiter(config.DefaultRateLimitRPS, config.DefaultRateLimitBurst),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.extractor = document.NewExtractor(
		document.WithMaxSize(s.maxUploadSize),
		document.WithLogger(s.logger),
	)

	return s
}

// NewFromConfig creates a Server from the application configuration.
func NewFromConfig(cfg *config.Config, evaluator *pipeline.Evaluator, logger *slog.Logger) *Server {
	return New(evaluator,
		WithAddr(cfg.ListenAddr),
		WithCORSOrigin(cfg.CORSOrigin),
		WithMaxUploadSize(cfg.MaxUploadSize),
		WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		WithSweepInterval(cfg.SweepInterval),
		WithLogger(logger),
	)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the API with its middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/check", s.handleCheck)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/advanced/check-text", s.handleCheckText)
	mux.HandleFunc("POST /api/advanced/check-file", s.handleCheckFile)

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	h = cors(s.corsOrigin)(h)
	return errreport.Recover(s.logger)(h)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// The cache sweeper and the rate limiter cleanup run alongside.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("api server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("api server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	sweeper := cache.NewSweeper(s.evaluator.Cache(),
		cache.WithInterval(s.sweepInterval),
		cache.WithSweeperLogger(s.logger),
	)
	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	if s.limiter != nil {
		g.Go(func() error {
			return s.limiter.run(gctx, s.sweepInterval)
		})
	}

	return g.Wait()
}
