// Package safebrowsing implements a Google Safe Browsing v4 lookup client.
//
// The Client satisfies probe.Classifier. A URL is considered safe when the
// threatMatches:find response carries no matches. Transport and API errors
// are returned to the caller, which decides how to degrade; the prober
// treats them as "safe" and records the failure on the outcome.
//
// Lookups are paced by a token bucket from golang.org/x/time/rate so that a
// large batch cannot exhaust the API quota in a burst.
package safebrowsing
