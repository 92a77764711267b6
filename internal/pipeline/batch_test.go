package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DOVA00/checking-links/internal/cache"
	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/normalize"
)

// trustedPipeline returns a pipeline whose checks all pass, counting executions.
func trustedPipeline(runs *atomic.Int32) *Pipeline {
	p := New(WithLogger(discardLogger()))
	for _, name := range model.AllChecks() {
		p.AddStep(NewStep(name, func(context.Context, string) model.Outcome {
			if runs != nil && name == model.CheckHTTPS {
				runs.Add(1)
			}
			if name == model.CheckAgeMonths {
				return model.OkInt(72)
			}
			return model.Ok(true)
		}))
	}
	return p
}

func newTestEvaluator(p *Pipeline, opts ...EvaluatorOption) *Evaluator {
	opts = append([]EvaluatorOption{WithEvaluatorLogger(discardLogger())}, opts...)
	return NewEvaluator(p, cache.New(), opts...)
}

func siteURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example.com", i)
	}
	return urls
}

// TestNewEvaluator tests the Evaluator constructor.
func TestNewEvaluator(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		e := NewEvaluator(New(), nil)
		if e.concurrency != 10 {
			t.Errorf("expected default concurrency 10, got %d", e.concurrency)
		}
		if e.MaxEvaluations() != 50 {
			t.Errorf("expected default cap 50, got %d", e.MaxEvaluations())
		}
		if e.Cache() == nil {
			t.Error("expected a default cache")
		}
	})

	t.Run("ignores non-positive options", func(t *testing.T) {
		t.Parallel()
		e := NewEvaluator(New(), nil, WithConcurrency(0), WithMaxEvaluations(-1))
		if e.concurrency != 10 || e.maxEvaluations != 50 {
			t.Errorf("expected defaults, got concurrency=%d cap=%d", e.concurrency, e.maxEvaluations)
		}
	})
}

// TestEvaluateOne tests single URL evaluation.
func TestEvaluateOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("scores and classifies", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil))

		result, err := e.EvaluateOne(ctx, "example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.URL != "https://example.com" {
			t.Errorf("expected normalized URL, got %s", result.URL)
		}
		if result.Score != 100 {
			t.Errorf("expected score clamped to 100, got %v", result.Score)
		}
		if result.Level != model.TrustLevelVeryHigh {
			t.Errorf("expected VERY_HIGH, got %s", result.Level)
		}
		if len(result.Checks) != len(model.AllChecks()) {
			t.Errorf("expected %d checks, got %d", len(model.AllChecks()), len(result.Checks))
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil))

		_, err := e.EvaluateOne(ctx, "not a url")
		if !errors.Is(err, normalize.ErrInvalidURL) {
			t.Fatalf("expected ErrInvalidURL, got %v", err)
		}
		var invalid *normalize.InvalidURLError
		if !errors.As(err, &invalid) || invalid.Input != "not a url" {
			t.Errorf("expected InvalidURLError with input, got %v", err)
		}
		if e.Stats().TotalCached != 0 {
			t.Error("invalid input must not be cached")
		}
	})

	t.Run("reuses fresh cache entries", func(t *testing.T) {
		t.Parallel()
		var runs atomic.Int32
		e := newTestEvaluator(trustedPipeline(&runs))

		first, err := e.EvaluateOne(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		second, err := e.EvaluateOne(ctx, "example.com/")
		if err != nil {
			t.Fatal(err)
		}
		if runs.Load() != 1 {
			t.Errorf("expected one pipeline run, got %d", runs.Load())
		}
		if first != second {
			t.Error("expected the cached result to be returned")
		}
	})

	t.Run("re-evaluates after the TTL", func(t *testing.T) {
		t.Parallel()
		var runs atomic.Int32
		var mu sync.Mutex
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		c := cache.New(cache.WithClock(clock))
		e := NewEvaluator(trustedPipeline(&runs), c, WithEvaluatorLogger(discardLogger()))

		if _, err := e.EvaluateOne(ctx, "https://example.com"); err != nil {
			t.Fatal(err)
		}
		mu.Lock()
		now = now.Add(25 * time.Hour)
		mu.Unlock()
		result, err := e.EvaluateOne(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if runs.Load() != 2 {
			t.Errorf("expected two pipeline runs, got %d", runs.Load())
		}
		if !result.Timestamp.Equal(clock()) {
			t.Errorf("expected timestamp from the cache clock, got %v", result.Timestamp)
		}
	})

	t.Run("cancelled evaluation is not cached", func(t *testing.T) {
		t.Parallel()
		p := New(WithLogger(discardLogger()))
		for _, name := range model.AllChecks() {
			p.AddStep(NewStep(name, func(ctx context.Context, _ string) model.Outcome {
				if ctx.Err() != nil {
					return model.Failed(name, ctx.Err().Error())
				}
				if name == model.CheckAgeMonths {
					return model.OkInt(72)
				}
				return model.Ok(true)
			}))
		}
		e := newTestEvaluator(p)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		degraded, err := e.EvaluateOne(cancelled, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if degraded.Score == 100 {
			t.Fatalf("expected a degraded score under a cancelled context, got %v", degraded.Score)
		}
		if e.Stats().TotalCached != 0 {
			t.Errorf("expected nothing cached, got %d entries", e.Stats().TotalCached)
		}

		result, err := e.EvaluateOne(ctx, "https://example.com")
		if err != nil {
			t.Fatal(err)
		}
		if result.Score != 100 || result.Level != model.TrustLevelVeryHigh {
			t.Errorf("expected a fresh VERY_HIGH result, got %v %s", result.Score, result.Level)
		}
		if e.Stats().TotalCached != 1 {
			t.Errorf("expected the healthy result cached, got %d entries", e.Stats().TotalCached)
		}
	})

	t.Run("stats reflect cached results", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil))
		for _, u := range siteURLs(3) {
			if _, err := e.EvaluateOne(ctx, u); err != nil {
				t.Fatal(err)
			}
		}
		stats := e.Stats()
		if stats.TotalCached != 3 || stats.AverageScore != 100 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})
}

// TestEvaluateBatch tests capped concurrent evaluation.
func TestEvaluateBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("caps results and keeps candidate order", func(t *testing.T) {
		t.Parallel()
		p := New(WithLogger(discardLogger()))
		p.AddStep(NewStep(model.CheckHTTPS, func(context.Context, string) model.Outcome {
			time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
			return model.Ok(true)
		}))
		e := newTestEvaluator(p)

		results, err := e.EvaluateBatch(ctx, siteURLs(70), 50)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 50 {
			t.Fatalf("expected 50 results, got %d", len(results))
		}
		for i, r := range results {
			if want := fmt.Sprintf("https://site%d.example.com", i); r.URL != want {
				t.Errorf("results[%d] = %s, expected %s", i, r.URL, want)
			}
		}
	})

	t.Run("non-positive cap uses the default", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil), WithMaxEvaluations(3))
		results, err := e.EvaluateBatch(ctx, siteURLs(10), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 3 {
			t.Errorf("expected 3 results, got %d", len(results))
		}
	})

	t.Run("skips invalid candidates", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil))
		candidates := []string{"not a url", "https://a.example.com", "http://", "https://b.example.com"}
		results, err := e.EvaluateBatch(ctx, candidates, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].URL != "https://a.example.com" || results[1].URL != "https://b.example.com" {
			t.Errorf("unexpected results %s, %s", results[0].URL, results[1].URL)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		results, err := newTestEvaluator(trustedPipeline(nil)).EvaluateBatch(ctx, nil, 5)
		if err != nil || len(results) != 0 {
			t.Errorf("expected no results, got %d err=%v", len(results), err)
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()
		var current, peak atomic.Int32
		p := New(WithLogger(discardLogger()))
		p.AddStep(NewStep(model.CheckHTTPS, func(context.Context, string) model.Outcome {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
			return model.Ok(true)
		}))
		e := newTestEvaluator(p, WithConcurrency(3))

		results, err := e.EvaluateBatch(ctx, siteURLs(20), 20)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 20 {
			t.Errorf("expected 20 results, got %d", len(results))
		}
		if peak.Load() > 3 {
			t.Errorf("expected at most 3 concurrent evaluations, got %d", peak.Load())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		results, err := newTestEvaluator(trustedPipeline(nil)).EvaluateBatch(cctx, siteURLs(5), 5)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

// TestEvaluateText tests extraction followed by evaluation.
func TestEvaluateText(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("seventy URLs with a cap of fifty", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil))
		text := "Links: " + strings.Join(siteURLs(70), " and ")

		got, err := e.EvaluateText(ctx, text, 50)
		if err != nil {
			t.Fatal(err)
		}
		if got.ExtractedCount != 70 {
			t.Errorf("expected 70 extracted, got %d", got.ExtractedCount)
		}
		if got.EvaluatedCount != 50 || len(got.Results) != 50 {
			t.Errorf("expected 50 evaluated, got %d (%d results)", got.EvaluatedCount, len(got.Results))
		}
	})

	t.Run("mixed URLs and bare domains", func(t *testing.T) {
		t.Parallel()
		e := newTestEvaluator(trustedPipeline(nil))
		got, err := e.EvaluateText(ctx, "Visit https://example.com and google.com, mail admin@corp.example", 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.ExtractedCount != 2 || got.EvaluatedCount != 2 {
			t.Fatalf("unexpected counts %+v", got)
		}
		if got.Results[0].URL != "https://example.com" || got.Results[1].URL != "https://google.com" {
			t.Errorf("unexpected URLs %s, %s", got.Results[0].URL, got.Results[1].URL)
		}
	})

	t.Run("no URLs", func(t *testing.T) {
		t.Parallel()
		got, err := newTestEvaluator(trustedPipeline(nil)).EvaluateText(ctx, "nothing to see here", 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.ExtractedCount != 0 || got.EvaluatedCount != 0 || len(got.Results) != 0 {
			t.Errorf("expected zero counts, got %+v", got)
		}
	})
}

// TestCapGate tests slot accounting of the batch cap.
func TestCapGate(t *testing.T) {
	t.Parallel()

	t.Run("stops after enough successes", func(t *testing.T) {
		t.Parallel()
		g := newCapGate(2)
		for range 2 {
			if !g.acquire() {
				t.Fatal("expected a slot")
			}
			g.release(true)
		}
		if g.acquire() {
			t.Error("expected the gate to be closed")
		}
	})

	t.Run("a failure frees its slot", func(t *testing.T) {
		t.Parallel()
		g := newCapGate(1)
		if !g.acquire() {
			t.Fatal("expected a slot")
		}

		done := make(chan bool)
		go func() { done <- g.acquire() }()

		select {
		case <-done:
			t.Fatal("second acquire must wait for the running evaluation")
		case <-time.After(20 * time.Millisecond):
		}

		g.release(false)
		select {
		case ok := <-done:
			if !ok {
				t.Error("expected the freed slot to be granted")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("acquire did not wake up")
		}
	})

	t.Run("waiters give up once the cap is met", func(t *testing.T) {
		t.Parallel()
		g := newCapGate(1)
		if !g.acquire() {
			t.Fatal("expected a slot")
		}

		done := make(chan bool)
		go func() { done <- g.acquire() }()
		g.release(true)

		select {
		case ok := <-done:
			if ok {
				t.Error("expected no slot after the cap is met")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("acquire did not wake up")
		}
	})
}
