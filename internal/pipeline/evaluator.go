package pipeline

import (
	"context"
	"log/slog"

	"github.com/DOVA00/checking-links/internal/cache"
	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/extract"
	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/normalize"
	"github.com/DOVA00/checking-links/internal/score"
)

// Evaluator turns raw URLs into scored, classified evaluation results.
// It is safe for concurrent use.
type Evaluator struct {
	pipeline *Pipeline
	cache    *cache.ResultCache

	// concurrency is the maximum number of URLs evaluated at once.
	concurrency int

	// maxEvaluations is the default cap of EvaluateBatch and EvaluateText.
	maxEvaluations int

	logger *slog.Logger
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithEvaluatorLogger sets the logger.
func WithEvaluatorLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent evaluations.
// Default is 10 if not specified.
func WithConcurrency(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithMaxEvaluations sets the default cap on successful evaluations per batch.
func WithMaxEvaluations(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxEvaluations = n
		}
	}
}

// NewEvaluator creates an Evaluator that runs p and stores results in c.
// A nil cache is replaced with one using the default TTL.
func NewEvaluator(p *Pipeline, c *cache.ResultCache, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		pipeline:       p,
		cache:          c,
		concurrency:    config.DefaultConcurrency,
		maxEvaluations: config.DefaultMaxEvaluations,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cache == nil {
		e.cache = cache.New()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// EvaluateOne normalizes raw, returns a fresh cached result when one exists,
// and otherwise runs every check, scores and caches the new result.
// The only error is a *normalize.InvalidURLError.
func (e *Evaluator) EvaluateOne(ctx context.Context, raw string) (*model.EvaluationResult, error) {
	url, err := normalize.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return e.evaluate(ctx, url), nil
}

// evaluate runs the cache lookup and pipeline for a normalized URL.
func (e *Evaluator) evaluate(ctx context.Context, url string) *model.EvaluationResult {
	if cached, ok := e.cache.Get(url); ok {
		e.logger.Debug("cache hit", "url", url)
		return cached
	}

	checks := e.pipeline.Execute(ctx, url)
	points, level := score.Evaluate(checks)
	result := model.NewEvaluationResult(url, checks, points, level, e.cache.Now())

	// Checks cut short by a cancelled caller do not describe the site.
	if err := ctx.Err(); err != nil {
		e.logger.Debug("evaluation not cached", "url", url, "error", err)
		return result
	}
	e.cache.Put(url, result)

	e.logger.Info("url evaluated",
		"url", url,
		"score", points,
		"level", level.String(),
	)
	return result
}

// EvaluateText extracts every URL from text and evaluates up to limit of
// them. ExtractedCount reports every URL found, EvaluatedCount only the
// successful evaluations.
func (e *Evaluator) EvaluateText(ctx context.Context, text string, limit int) (*model.TextEvaluation, error) {
	candidates := extract.Extract(text)
	results, err := e.EvaluateBatch(ctx, candidates, limit)
	return &model.TextEvaluation{
		ExtractedCount: len(candidates),
		EvaluatedCount: len(results),
		Results:        results,
	}, err
}

// Stats reports the number of cached results and their mean score.
func (e *Evaluator) Stats() model.Stats {
	return e.cache.Stats()
}

// Cache returns the result cache, e.g. to attach a Sweeper.
func (e *Evaluator) Cache() *cache.ResultCache {
	return e.cache
}

// MaxEvaluations returns the default batch cap.
func (e *Evaluator) MaxEvaluations() int {
	return e.maxEvaluations
}
