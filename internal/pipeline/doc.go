// Package pipeline runs the trust checks for a URL and orchestrates
// evaluation of single URLs, batches and free text.
//
// A Pipeline holds one Step per check. Execute runs every step of a URL
// concurrently and joins the outcomes into a complete model.Checks map;
// a step that panics is recorded as a failed outcome.
//
// The Evaluator wires the pieces together: normalize, consult the result
// cache, run the pipeline, score, classify and store. EvaluateBatch bounds
// concurrency with errgroup and stops starting new evaluations once the
// requested number of successful results exists.
package pipeline
