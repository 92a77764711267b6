package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DOVA00/checking-links/internal/config"
	"github.com/DOVA00/checking-links/internal/model"
	"github.com/DOVA00/checking-links/internal/normalize"
)

// ContactPaths are the well-known locations of a contact page.
var ContactPaths = []string{
	"/contact",
	"/contacts",
	"/contact-us",
	"/contactus",
	"/about/contact",
	"/info/contact",
	"/feedback",
}

// PrivacyPaths are the well-known locations of a privacy policy.
var PrivacyPaths = []string{
	"/privacy",
	"/privacy-policy",
	"/privacypolicy",
	"/privacy_policy",
	"/policy",
	"/legal/privacy",
}

// HasContactPage probes the contact paths of rawURL, plus any extra paths
// configured for its host.
func (p *Prober) HasContactPage(ctx context.Context, rawURL string) model.Outcome {
	site := p.siteConfig(rawURL)
	paths := append(append([]string(nil), ContactPaths...), site.ContactPaths...)
	return p.probePaths(ctx, rawURL, paths, p.attempts).withName(model.CheckHasContact)
}

// HasPrivacyPolicy probes the privacy paths of rawURL, plus any extra paths
// configured for its host.
func (p *Prober) HasPrivacyPolicy(ctx context.Context, rawURL string) model.Outcome {
	site := p.siteConfig(rawURL)
	paths := append(append([]string(nil), PrivacyPaths...), site.PrivacyPaths...)
	return p.probePaths(ctx, rawURL, paths, p.attempts).withName(model.CheckHasPrivacyPolicy)
}

// pathResult carries a path probe outcome before it is bound to a check name.
type pathResult struct {
	found     bool
	responded bool
	err       error
}

// withName converts the result into the outcome of the named check.
// A page that was never reached because every request errored is a
// failure; a server that answered without a 2xx/3xx is a plain "no".
func (r pathResult) withName(name model.CheckName) model.Outcome {
	switch {
	case r.found:
		return model.Ok(true)
	case r.responded:
		return model.Ok(false)
	case r.err != nil:
		return model.Failed(name, r.err.Error())
	default:
		return model.Ok(false)
	}
}

// ProbePathExists sends a HEAD request to baseURL+path for every path, up to
// maxAttempts rounds, and reports whether any response was in [200, 400).
// Between rounds it waits for the backoff interval unless ctx ends first.
func (p *Prober) ProbePathExists(ctx context.Context, baseURL string, paths []string, maxAttempts int) bool {
	return p.probePaths(ctx, baseURL, paths, maxAttempts).found
}

func (p *Prober) probePaths(ctx context.Context, baseURL string, paths []string, maxAttempts int) pathResult {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	site := p.siteConfig(baseURL)

	var result pathResult
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for _, path := range paths {
			status, err := p.head(ctx, baseURL+path, site)
			if err != nil {
				result.err = err
				if ctx.Err() != nil {
					return result
				}
				continue
			}
			result.responded = true
			if status >= http.StatusOK && status < http.StatusBadRequest {
				result.found = true
				return result
			}
		}

		if attempt < maxAttempts-1 {
			if err := wait(ctx, p.backoff); err != nil {
				result.err = err
				return result
			}
		}
	}
	return result
}

// head issues one existence request bounded by the probe timeout.
func (p *Prober) head(ctx context.Context, target string, site config.SiteConfig) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	ua := p.userAgent
	if site.UserAgent != "" {
		ua = site.UserAgent
	}
	req.Header.Set("User-Agent", ua)
	for k, v := range site.Headers {
		req.Header.Set(k, v)
	}
	if site.Cookie != "" {
		req.Header.Set("Cookie", site.Cookie)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	p.logger.Debug("path probe", "url", target, "status", resp.StatusCode)
	return resp.StatusCode, nil
}

func (p *Prober) siteConfig(rawURL string) config.SiteConfig {
	if p.sites == nil {
		return config.SiteConfig{}
	}
	return p.sites.GetSiteConfig(normalize.Host(rawURL))
}

// errBackoffCancelled is returned when ctx ends during a backoff wait.
var errBackoffCancelled = errors.New("cancelled during retry backoff")

// wait blocks for d or until ctx is done, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", errBackoffCancelled, ctx.Err())
	case <-timer.C:
		return nil
	}
}
