package config

import "errors"

// Configuration validation errors returned by Config.Validate and the
// commands. Callers can match them with errors.Is.
var (
	// ErrNoTarget is returned when the check command receives no URL.
	ErrNoTarget = errors.New("no target specified: provide at least one URL")

	// ErrInvalidTimeout is returned when a probe timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidProbeAttempts is returned when the probe attempt count is not positive.
	ErrInvalidProbeAttempts = errors.New("invalid probe attempts: must be positive")

	// ErrInvalidBackoff is returned when the probe backoff is negative.
	ErrInvalidBackoff = errors.New("invalid probe backoff: must be non-negative")

	// ErrInvalidMaxEvaluations is returned when the evaluation cap is not positive.
	ErrInvalidMaxEvaluations = errors.New("invalid max evaluations: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL or sweep interval is not positive.
	ErrInvalidCacheTTL = errors.New("invalid cache settings: TTL and sweep interval must be positive")

	// ErrInvalidMaxUploadSize is returned when the upload limit is not positive.
	ErrInvalidMaxUploadSize = errors.New("invalid max upload size: must be positive")

	// ErrInvalidRateLimit is returned for a negative rate or an empty burst.
	ErrInvalidRateLimit = errors.New("invalid rate limit: rate must be non-negative and burst positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --pdf is given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json, --markdown and --pdf cannot be used together")

	// ErrPDFNeedsFile is returned when a PDF report has no output file.
	ErrPDFNeedsFile = errors.New("pdf report requires --output")
)
