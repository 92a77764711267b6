// Package cache holds recent evaluation results in memory.
//
// A ResultCache maps a normalized URL to its latest EvaluationResult. Entries
// are fresh for a fixed TTL (24 hours by default); Get ignores stale entries
// on its own, and a Sweeper removes them periodically so the map cannot grow
// without bound. The cache is safe for concurrent use and is owned by
// whoever constructs it; there is no package-level state.
package cache
