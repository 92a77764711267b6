package pipeline

import (
	"context"
	"log/slog"

	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/probe"
)

// CheckStep adapts a single probe function to the Step interface.
type CheckStep struct {
	name  model.CheckName
	check func(ctx context.Context, url string) model.Outcome
}

// NewStep creates a step that stores the result of check under name.
func NewStep(name model.CheckName, check func(ctx context.Context, url string) model.Outcome) *CheckStep {
	return &CheckStep{name: name, check: check}
}

// Name returns the step name.
func (s *CheckStep) Name() model.CheckName {
	return s.name
}

// Do executes the check.
func (s *CheckStep) Do(ctx context.Context, url string) model.Outcome {
	return s.check(ctx, url)
}

// NewHTTPSStep checks that the URL uses https.
func NewHTTPSStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckHTTPS, func(_ context.Context, url string) model.Outcome {
		return p.CheckHTTPS(url)
	})
}

// NewTLSStep checks the server certificate.
func NewTLSStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckValidSSL, p.CheckTLSValidity)
}

// NewDomainStep checks the hostname grammar.
func NewDomainStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckValidDomain, func(_ context.Context, url string) model.Outcome {
		return p.ValidateDomainSyntax(url)
	})
}

// NewDomainAgeStep reports the domain age in months.
func NewDomainAgeStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckAgeMonths, func(_ context.Context, url string) model.Outcome {
		return p.DomainAgeMonths(url)
	})
}

// NewContactStep probes for a contact page.
func NewContactStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckHasContact, p.HasContactPage)
}

// NewPrivacyStep probes for a privacy policy.
func NewPrivacyStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckHasPrivacyPolicy, p.HasPrivacyPolicy)
}

// NewSafeBrowsingStep asks the malicious-URL classifier.
func NewSafeBrowsingStep(p *probe.Prober) *CheckStep {
	return NewStep(model.CheckSafeBrowsing, p.CheckMalicious)
}

// DefaultSteps returns one step per check.
func DefaultSteps(p *probe.Prober) []Step {
	return []Step{
		NewHTTPSStep(p),
		NewTLSStep(p),
		NewDomainStep(p),
		NewDomainAgeStep(p),
		NewContactStep(p),
		NewPrivacyStep(p),
		NewSafeBrowsingStep(p),
	}
}

// DefaultPipeline creates a pipeline running every check with p.
func DefaultPipeline(p *probe.Prober, logger *slog.Logger) *Pipeline {
	pl := New(WithLogger(logger))
	pl.AddSteps(DefaultSteps(p)...)
	return pl
}
