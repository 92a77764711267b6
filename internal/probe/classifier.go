package probe

import (
	"context"

	"github.com/DOVA00/checking-links/internal/model"
)

// Classifier decides whether a URL is known to be malicious.
// IsSafe returns true when the URL is not flagged.
type Classifier interface {
	IsSafe(ctx context.Context, url string) (bool, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, url string) (bool, error)

// IsSafe calls f.
func (f ClassifierFunc) IsSafe(ctx context.Context, url string) (bool, error) {
	return f(ctx, url)
}

// CheckMalicious asks the classifier about rawURL. The check is fail-open:
// without a classifier, or when the classifier errors, the URL is treated
// as safe and the outcome records why.
func (p *Prober) CheckMalicious(ctx context.Context, rawURL string) model.Outcome {
	if p.classifier == nil {
		return model.Unknown(model.CheckSafeBrowsing, "no classifier configured")
	}

	safe, err := p.classifier.IsSafe(ctx, rawURL)
	if err != nil {
		p.logger.Debug("malicious URL classification failed",
			"url", rawURL,
			"error", err,
		)
		return model.Failed(model.CheckSafeBrowsing, err.Error())
	}
	return model.Ok(safe)
}
