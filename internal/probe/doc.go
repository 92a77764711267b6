// Package probe implements the network-observable checks run against a
// single normalized URL: HTTPS scheme, certificate validity, hostname
// syntax, existence of contact and privacy pages, malicious-URL
// classification and domain age.
//
// Every probe returns a model.Outcome and never an error. Timeouts,
// refused connections, handshake failures and malformed hosts become a
// failed outcome that carries the check's default value and the reason,
// so one failing probe cannot abort an evaluation. Probes share no mutable
// state and may run concurrently.
//
// Page existence probes send HEAD requests to a list of well-known paths
// and retry the whole list after a fixed backoff. The backoff waits on a
// timer and the request context, so a cancelled evaluation stops waiting
// immediately.
package probe
