// Package errreport sends unexpected errors and panics to Sentry.
//
// Reporting is optional. When Init is called with an empty DSN the Sentry
// client stays disabled and every function in this package is a no-op, so
// callers never need to check whether reporting is configured.
package errreport
