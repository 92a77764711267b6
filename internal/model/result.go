package model

import (
	"encoding/json"
	"time"
)

// EvaluationResult is the outcome of evaluating one normalized URL.
// A result is never modified after NewEvaluationResult returns it; the cache
// and callers share it read-only.
type EvaluationResult struct {
	// URL is the normalized URL that was evaluated.
	URL string `json:"url"`

	// Checks holds an outcome for every check.
	Checks Checks `json:"checks"`

	// Diagnostics lists the checks that did not produce an observed value.
	Diagnostics map[CheckName]Diagnostic `json:"diagnostics,omitempty"`

	// Score is the weighted trust score in [0, 100].
	Score float64 `json:"score"`

	// Level is the band derived from Score.
	Level TrustLevel `json:"level"`

	// Timestamp is when the evaluation finished. The cache uses it for expiry.
	Timestamp time.Time `json:"timestamp"`
}

// NewEvaluationResult builds a result from the raw check outcomes.
// Missing checks are filled with their defaults so the result always
// carries every check.
func NewEvaluationResult(url string, checks Checks, score float64, level TrustLevel, at time.Time) *EvaluationResult {
	complete := checks.Complete()
	return &EvaluationResult{
		URL:         url,
		Checks:      complete,
		Diagnostics: complete.Diagnostics(),
		Score:       score,
		Level:       level,
		Timestamp:   at,
	}
}

// UnmarshalJSON decodes a result and restores the status and reason of
// each check from Diagnostics.
func (r *EvaluationResult) UnmarshalJSON(data []byte) error {
	type plain EvaluationResult
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	for name, d := range decoded.Diagnostics {
		o, ok := decoded.Checks[name]
		if !ok {
			o = DefaultOutcome(name)
		}
		o.Status = d.Status
		o.Reason = d.Reason
		if decoded.Checks == nil {
			decoded.Checks = make(Checks)
		}
		decoded.Checks[name] = o
	}
	*r = EvaluationResult(decoded)
	return nil
}

// Safe reports whether the malicious-URL check considered the URL safe.
func (r *EvaluationResult) Safe() bool {
	return r.Checks.Bool(CheckSafeBrowsing, true)
}

// TextEvaluation is the outcome of evaluating every URL found in a text.
type TextEvaluation struct {
	// ExtractedCount is the number of distinct candidate URLs found.
	ExtractedCount int `json:"extractedCount"`

	// EvaluatedCount is the number of candidates that produced a result.
	EvaluatedCount int `json:"evaluatedCount"`

	// Results are the evaluation results in candidate order.
	Results []*EvaluationResult `json:"results"`
}

// Stats summarizes the current cache contents.
type Stats struct {
	// TotalCached is the number of cached results, expired or not.
	TotalCached int `json:"totalCached"`

	// AverageScore is the mean score of the cached results, 0 when empty.
	AverageScore float64 `json:"averageScore"`
}
