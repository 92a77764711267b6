package model

// Summary condenses a set of evaluation results for report headers.
type Summary struct {
	// Total is the number of results summarized.
	Total int `json:"total"`

	// LevelCounts maps every trust level to the number of results in it.
	LevelCounts map[TrustLevel]int `json:"level_counts"`

	// AverageScore is the mean score, 0 when there are no results.
	AverageScore float64 `json:"average_score"`

	// MinScore and MaxScore bound the observed scores.
	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`

	// Unsafe is the number of results flagged by the malicious-URL check.
	Unsafe int `json:"unsafe"`

	// Worst is the least trustworthy level observed. It is only meaningful
	// when Total is greater than zero.
	Worst TrustLevel `json:"worst"`
}

// NewSummary computes a Summary over results. Nil entries are ignored.
func NewSummary(results []*EvaluationResult) *Summary {
	s := &Summary{
		LevelCounts: make(map[TrustLevel]int, len(AllTrustLevels())),
		Worst:       TrustLevelVeryHigh,
	}
	for _, level := range AllTrustLevels() {
		s.LevelCounts[level] = 0
	}

	var total float64
	for _, r := range results {
		if r == nil {
			continue
		}
		if s.Total == 0 || r.Score < s.MinScore {
			s.MinScore = r.Score
		}
		if s.Total == 0 || r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
		s.Total++
		total += r.Score
		s.LevelCounts[r.Level]++
		if r.Level < s.Worst {
			s.Worst = r.Level
		}
		if !r.Safe() {
			s.Unsafe++
		}
	}

	if s.Total > 0 {
		s.AverageScore = total / float64(s.Total)
	}
	return s
}

// Count returns the number of results at level.
func (s *Summary) Count(level TrustLevel) int {
	return s.LevelCounts[level]
}
