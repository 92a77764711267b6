// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// # Security Features
//
// The SecureHandler sanitizes log output before it reaches the wrapped handler:
//   - attributes whose key names a credential (cookie, authorization, api_key, dsn)
//   - values that look like secrets (JWTs, bearer tokens, Google API keys)
//   - credential query parameters inside URLs and error messages, e.g. the
//     Safe Browsing endpoint's "?key=..." parameter
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Info("lookup failed",
//	    "endpoint", "https://safebrowsing.googleapis.com/v4/threatMatches:find?key=AIza...",
//	)
//	// endpoint=https://safebrowsing.googleapis.com/v4/threatMatches:find?key=***REDACTED***
//
//	slog.SetDefault(logger)
package log
