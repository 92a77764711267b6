package model

import (
	"errors"
	"fmt"
	"strings"
)

// TrustLevel is the categorical band derived from a trust score.
// Levels are ordered so that a higher value means a more trustworthy site,
// which lets callers compare levels directly (e.g. level >= TrustLevelHigh).
type TrustLevel int

const (
	// TrustLevelDangerous is assigned to scores below 30.
	TrustLevelDangerous TrustLevel = iota

	// TrustLevelLow is assigned to scores in [30, 50).
	TrustLevelLow

	// TrustLevelMedium is assigned to scores in [50, 70).
	TrustLevelMedium

	// TrustLevelHigh is assigned to scores in [70, 85).
	TrustLevelHigh

	// TrustLevelVeryHigh is assigned to scores of 85 and above.
	TrustLevelVeryHigh
)

// ErrUnknownTrustLevel is returned by ParseTrustLevel for unrecognized names.
var ErrUnknownTrustLevel = errors.New("unknown trust level")

// String returns the wire name of the level.
func (l TrustLevel) String() string {
	switch l {
	case TrustLevelDangerous:
		return "DANGEROUS"
	case TrustLevelLow:
		return "LOW"
	case TrustLevelMedium:
		return "MEDIUM"
	case TrustLevelHigh:
		return "HIGH"
	case TrustLevelVeryHigh:
		return "VERY_HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the level as its wire name so JSON output carries
// "VERY_HIGH" rather than a bare integer.
func (l TrustLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a wire name produced by MarshalText.
func (l *TrustLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseTrustLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseTrustLevel converts a wire name back into a TrustLevel.
// Matching is case-insensitive and accepts "very high" as well as "VERY_HIGH".
func ParseTrustLevel(s string) (TrustLevel, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	for _, level := range AllTrustLevels() {
		if level.String() == normalized {
			return level, nil
		}
	}
	return TrustLevelDangerous, fmt.Errorf("%w: %q", ErrUnknownTrustLevel, s)
}

// AllTrustLevels returns every level from the most to the least trustworthy.
func AllTrustLevels() []TrustLevel {
	return []TrustLevel{
		TrustLevelVeryHigh,
		TrustLevelHigh,
		TrustLevelMedium,
		TrustLevelLow,
		TrustLevelDangerous,
	}
}

// LevelInfo contains presentation metadata for a trust level.
type LevelInfo struct {
	Level          TrustLevel
	Description    string
	Recommendation string
}

// levelInfoMapping keeps the user-facing wording for each level in one place
// so every report format describes a level the same way.
var levelInfoMapping = map[TrustLevel]LevelInfo{
	TrustLevelVeryHigh: {
		Level:          TrustLevelVeryHigh,
		Description:    "The site passed nearly every check: secure transport, a valid certificate and published contact and privacy pages.",
		Recommendation: "No action needed.",
	},
	TrustLevelHigh: {
		Level:          TrustLevelHigh,
		Description:    "The site passed most checks but is missing one or two trust signals.",
		Recommendation: "Generally safe to visit. Review the failed checks if you plan to share personal data.",
	},
	TrustLevelMedium: {
		Level:          TrustLevelMedium,
		Description:    "The site is missing several trust signals such as contact or privacy pages.",
		Recommendation: "Proceed with caution and avoid entering credentials or payment details.",
	},
	TrustLevelLow: {
		Level:          TrustLevelLow,
		Description:    "The site lacks secure transport or a valid certificate and publishes little about its operator.",
		Recommendation: "Avoid submitting any information to this site.",
	},
	TrustLevelDangerous: {
		Level:          TrustLevelDangerous,
		Description:    "The site failed most checks or is flagged as malicious.",
		Recommendation: "Do not visit or share this link.",
	},
}

// GetLevelInfo returns the metadata for a level.
// Unknown levels are described as dangerous.
func GetLevelInfo(level TrustLevel) LevelInfo {
	if info, ok := levelInfoMapping[level]; ok {
		return info
	}
	return levelInfoMapping[TrustLevelDangerous]
}
