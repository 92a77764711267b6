package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DOVA00/checking-links/internal/model"
)

// Step is one check of the pipeline.
// Do must return an outcome for every input; failures are expressed as
// failed or unknown outcomes, never as errors.
type Step interface {
	// Do runs the check against an already normalized URL.
	Do(ctx context.Context, url string) model.Outcome

	// Name returns the check the outcome is stored under.
	Name() model.CheckName
}

// Pipeline runs a set of steps against a URL.
type Pipeline struct {
	// steps in registration order. Execution order is not defined.
	steps []Step

	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0, len(model.AllChecks())),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against url concurrently and returns the joined
// outcomes. Checks without a step, or whose step panicked, are filled in
// so the result always names every check.
func (p *Pipeline) Execute(ctx context.Context, url string) model.Checks {
	checks := make(model.Checks, len(p.steps))
	var mu sync.Mutex

	var g errgroup.Group
	for _, step := range p.steps {
		g.Go(func() error {
			outcome := p.run(ctx, step, url)

			mu.Lock()
			checks[step.Name()] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // steps never return errors

	return checks.Complete()
}

// run executes one step, converting a panic into a failed outcome.
func (p *Pipeline) run(ctx context.Context, step Step, url string) (outcome model.Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("step panicked",
				"step", step.Name(),
				"url", url,
				"panic", r,
			)
			outcome = model.Failed(step.Name(), fmt.Sprintf("panic: %v", r))
		}
	}()

	outcome = step.Do(ctx, url)

	p.logger.Debug("step completed",
		"step", step.Name(),
		"url", url,
		"outcome", outcome.String(),
		"elapsed", time.Since(start),
	)
	return outcome
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in registration order.
func (p *Pipeline) StepNames() []model.CheckName {
	names := make([]model.CheckName, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
