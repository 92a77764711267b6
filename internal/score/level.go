package score

import "github.com/DOVA00/checking-links/internal/model"

// Band is the inclusive lower bound of a trust level.
type Band struct {
	Level model.TrustLevel
	Min   float64
}

// bands is ordered from the highest lower bound down. Every score falls in
// exactly one band.
var bands = []Band{
	{Level: model.TrustLevelVeryHigh, Min: 85},
	{Level: model.TrustLevelHigh, Min: 70},
	{Level: model.TrustLevelMedium, Min: 50},
	{Level: model.TrustLevelLow, Min: 30},
}

// Classify maps a score to its trust level.
func Classify(score float64) model.TrustLevel {
	for _, b := range bands {
		if score >= b.Min {
			return b.Level
		}
	}
	return model.TrustLevelDangerous
}

// Bands returns a copy of the level thresholds.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Evaluate computes the score for checks and classifies it.
func Evaluate(checks model.Checks) (float64, model.TrustLevel) {
	s := Compute(checks)
	return s, Classify(s)
}
