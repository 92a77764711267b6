// Package config provides configuration structures and utilities for
// checklinks: probe timeouts and retry policy, evaluation limits, cache
// lifetime, the Safe Browsing key, API server settings and report options.
//
// Values come from NewConfig defaults, then an optional .env file and
// CHECKLINKS_* environment variables, then CLI flags. Per-host probe
// settings live in the YAML file .checklinks.
package config
