package cache

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often the sweeper removes stale entries.
const DefaultSweepInterval = time.Hour

// Sweeper periodically removes stale entries from a ResultCache.
type Sweeper struct {
	cache    *ResultCache
	interval time.Duration
	logger   *slog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithInterval sets the sweep interval. Non-positive values are ignored.
func WithInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSweeperLogger sets the logger used to report sweeps.
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// NewSweeper creates a sweeper bound to cache.
func NewSweeper(cache *ResultCache, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		cache:    cache,
		interval: DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Run sweeps every interval until ctx is cancelled. It always returns nil
// so it can be used directly with errgroup.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("cache sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("cache sweeper stopped")
			return nil
		case <-ticker.C:
			removed := s.cache.SweepExpired(s.cache.Now())
			s.logger.Debug("cache swept",
				"removed", removed,
				"remaining", s.cache.Len(),
			)
		}
	}
}
