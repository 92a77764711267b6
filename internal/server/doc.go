// Package server exposes the link evaluator over HTTP.
//
// Routes:
//
//	GET  /api/check?link=URL          evaluate one URL
//	GET  /api/stats                   cache statistics
//	POST /api/advanced/check-text     evaluate every URL in a JSON {"text": ...} body
//	POST /api/advanced/check-file     evaluate every URL in an uploaded document
//
// Every response is JSON. Requests pass through panic recovery, CORS and a
// per-client rate limiter, in that order.
package server
