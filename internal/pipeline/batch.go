package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/normalize"
)

// EvaluateBatch evaluates candidates concurrently and returns at most limit
// results, ordered as the candidates were. A non-positive limit means the
// configured default.
//
// Invalid candidates are skipped. Once limit results have succeeded no new
// evaluation is started; evaluations already running are never cancelled.
// A failed evaluation frees its slot for the next candidate. The error is
// non-nil only when ctx ended before every candidate was considered; the
// results gathered so far are still returned.
func (e *Evaluator) EvaluateBatch(ctx context.Context, candidates []string, limit int) ([]*model.EvaluationResult, error) {
	if limit <= 0 {
		limit = e.maxEvaluations
	}

	e.logger.Info("starting batch evaluation",
		"candidates", len(candidates),
		"limit", limit,
		"concurrency", e.concurrency,
	)
	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	results := make([]*model.EvaluationResult, len(candidates))
	var mu sync.Mutex

	gate := newCapGate(limit)

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	var err error
	for i, candidate := range candidates {
		url, nerr := normalize.Normalize(candidate)
		if nerr != nil {
			e.logger.Debug("skipping invalid candidate", "candidate", candidate, "error", nerr)
			continue
		}

		if !gate.acquire() {
			break
		}
		if err = ctx.Err(); err != nil {
			gate.release(false)
			break
		}

		g.Go(func() error {
			ok := false
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("evaluation panicked",
						"url", url,
						"panic", fmt.Sprint(r),
					)
				}
				gate.release(ok)
			}()

			result := e.evaluate(ctx, url)

			mu.Lock()
			results[i] = result
			mu.Unlock()
			ok = true
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // evaluations never return errors

	ordered := make([]*model.EvaluationResult, 0, min(limit, len(candidates)))
	for _, r := range results {
		if r != nil {
			ordered = append(ordered, r)
		}
	}

	e.logger.Info("batch evaluation complete",
		"candidates", len(candidates),
		"evaluated", len(ordered),
		"elapsed", time.Since(startTime),
	)

	return ordered, err
}

// capGate admits evaluations while succeeded+running stays below the cap.
type capGate struct {
	mu        sync.Mutex
	cond      *sync.Cond
	limit     int
	succeeded int
	running   int
}

func newCapGate(limit int) *capGate {
	g := &capGate{limit: limit}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// acquire blocks until a slot is free and reports false once the cap of
// successful evaluations has been reached.
func (g *capGate) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for g.succeeded < g.limit && g.succeeded+g.running >= g.limit {
		g.cond.Wait()
	}
	if g.succeeded >= g.limit {
		return false
	}
	g.running++
	return true
}

// release frees a slot, counting it as a success when ok is set.
func (g *capGate) release(ok bool) {
	g.mu.Lock()
	g.running--
	if ok {
		g.succeeded++
	}
	g.mu.Unlock()
	g.cond.Broadcast()
}
