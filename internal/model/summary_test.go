package model

import (
	"testing"
	"time"
)

// TestNewSummary tests the per-level roll-up.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		s := NewSummary(nil)
		if s.Total != 0 || s.AverageScore != 0 {
			t.Errorf("unexpected summary %+v", s)
		}
		for _, level := range AllTrustLevels() {
			if s.Count(level) != 0 {
				t.Errorf("expected zero count for %s", level)
			}
		}
	})

	t.Run("counts levels and scores", func(t *testing.T) {
		t.Parallel()
		results := []*EvaluationResult{
			NewEvaluationResult("https://a.example", Checks{}, 90, TrustLevelVeryHigh, now),
			NewEvaluationResult("https://b.example", Checks{CheckSafeBrowsing: Ok(false)}, 20, TrustLevelDangerous, now),
			nil,
			NewEvaluationResult("https://c.example", Checks{}, 55, TrustLevelMedium, now),
		}

		s := NewSummary(results)
		if s.Total != 3 {
			t.Fatalf("expected 3 results, got %d", s.Total)
		}
		if s.MinScore != 20 || s.MaxScore != 90 {
			t.Errorf("unexpected bounds %v..%v", s.MinScore, s.MaxScore)
		}
		if s.AverageScore != 55 {
			t.Errorf("expected average 55, got %v", s.AverageScore)
		}
		if s.Count(TrustLevelDangerous) != 1 || s.Count(TrustLevelVeryHigh) != 1 {
			t.Errorf("unexpected counts %v", s.LevelCounts)
		}
		if s.Worst != TrustLevelDangerous {
			t.Errorf("expected worst DANGEROUS, got %s", s.Worst)
		}
		if s.Unsafe != 1 {
			t.Errorf("expected one unsafe result, got %d", s.Unsafe)
		}
	})
}

// TestNewEvaluationResult tests that results always carry every check.
func TestNewEvaluationResult(t *testing.T) {
	t.Parallel()

	r := NewEvaluationResult("https://example.com", Checks{CheckHTTPS: Ok(true)}, 20, TrustLevelDangerous, time.Now())
	for _, name := range AllChecks() {
		if _, ok := r.Checks[name]; !ok {
			t.Errorf("missing check %s", name)
		}
	}
	if !r.Safe() {
		t.Error("missing safeBrowsing must read as safe")
	}
	if _, ok := r.Diagnostics[CheckValidSSL]; !ok {
		t.Error("filled checks should appear in diagnostics")
	}
}
