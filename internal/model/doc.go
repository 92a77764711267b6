// Package model defines the data structures shared by the evaluation
// pipeline, the cache, the history database and the report writers.
//
// This package contains the following main types:
//   - EvaluationResult: the score, level and check outcomes for one URL
//   - Outcome: the tagged result of a single probe (ok, unknown or failed)
//   - TrustLevel: the five trust bands derived from a score
//   - TextEvaluation: the response for a block of free text
//   - Summary: per-level roll-up used by reports
//
// The models are serializable to JSON for API responses and database storage.
package model
