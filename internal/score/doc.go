// Package score turns check outcomes into a trust score and a trust level.
package score
