package cache

import (
	"sync"
	"time"

	"github.com/DOVA00/checking-links/internal/model"
)

// DefaultTTL is how long an evaluation stays fresh.
const DefaultTTL = 24 * time.Hour

// entry wraps a result with the time it was stored. Entries are replaced
// as a whole, never updated in place.
type entry struct {
	result   *model.EvaluationResult
	storedAt time.Time
}

// ResultCache is a concurrency-safe map from normalized URL to result.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a ResultCache.
type Option func(*ResultCache)

// WithTTL sets the freshness window. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResultCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *ResultCache {
	c := &ResultCache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for key if it is younger than the TTL.
// A stale entry is reported as absent even before the sweeper removes it.
func (c *ResultCache) Get(key string) (*model.EvaluationResult, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.fresh(e, c.now()) {
		return nil, false
	}
	return e.result, true
}

// Put stores result under key, replacing any previous entry.
func (c *ResultCache) Put(key string, result *model.EvaluationResult) {
	if result == nil {
		return
	}
	e := entry{result: result, storedAt: c.now()}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// SweepExpired removes every entry that is at least TTL old at now and
// returns how many were removed.
func (c *ResultCache) SweepExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !c.fresh(e, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, stale ones included.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the entry count and average score of the stored results.
func (c *ResultCache) Stats() model.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := model.Stats{TotalCached: len(c.entries)}
	if stats.TotalCached == 0 {
		return stats
	}
	var total float64
	for _, e := range c.entries {
		total += e.result.Score
	}
	stats.AverageScore = total / float64(stats.TotalCached)
	return stats
}

// TTL returns the freshness window.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// Now returns the current time according to the cache clock.
func (c *ResultCache) Now() time.Time {
	return c.now()
}

func (c *ResultCache) fresh(e entry, now time.Time) bool {
	return now.Sub(e.storedAt) < c.ttl
}
