package score

import (
	"testing"

	"github.com/DOVA00/checking-links/internal/model"
)

func allPassing() model.Checks {
	return model.Checks{
		model.CheckHTTPS:            model.Ok(true),
		model.CheckValidSSL:         model.Ok(true),
		model.CheckSafeBrowsing:     model.Ok(true),
		model.CheckValidDomain:      model.Ok(true),
		model.CheckHasContact:       model.Ok(true),
		model.CheckHasPrivacyPolicy: model.Ok(true),
		model.CheckAgeMonths:        model.OkInt(72),
	}
}

// TestCompute tests the weighted additive model.
func TestCompute(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		checks   model.Checks
		expected float64
	}{
		{"everything passes", allPassing(), 100},
		{"empty checks keep the safe default", model.Checks{}, 25},
		{"nil checks keep the safe default", nil, 25},
		{
			name: "unknown age earns nothing",
			checks: model.Checks{
				model.CheckHTTPS:     model.Ok(true),
				model.CheckValidSSL:  model.Ok(true),
				model.CheckAgeMonths: model.OkInt(model.UnknownAgeMonths),
			},
			expected: 65,
		},
		{
			name: "flagged as malicious",
			checks: model.Checks{
				model.CheckHTTPS:        model.Ok(true),
				model.CheckSafeBrowsing: model.Ok(false),
			},
			expected: 20,
		},
		{
			name: "failed outcomes score as their default",
			checks: model.Checks{
				model.CheckValidSSL:     model.Failed(model.CheckValidSSL, "timeout"),
				model.CheckSafeBrowsing: model.Failed(model.CheckSafeBrowsing, "quota"),
			},
			expected: 25,
		},
		{
			name: "typical site without contact pages",
			checks: model.Checks{
				model.CheckHTTPS:            model.Ok(true),
				model.CheckValidSSL:         model.Ok(true),
				model.CheckSafeBrowsing:     model.Ok(true),
				model.CheckValidDomain:      model.Ok(true),
				model.CheckHasContact:       model.Ok(false),
				model.CheckHasPrivacyPolicy: model.Ok(false),
				model.CheckAgeMonths:        model.OkInt(-1),
			},
			expected: 75,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Compute(tc.checks); got != tc.expected {
				t.Errorf("Compute() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestAgeBonusFor tests the age bonus thresholds.
func TestAgeBonusFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		months   int
		expected float64
	}{
		{-1, 0},
		{0, 0},
		{11, 0},
		{12, 5},
		{23, 5},
		{24, 8},
		{59, 8},
		{60, 10},
		{600, 10},
	}

	for _, tc := range testCases {
		if got := AgeBonusFor(tc.months); got != tc.expected {
			t.Errorf("AgeBonusFor(%d) = %v, expected %v", tc.months, got, tc.expected)
		}
	}
}

// TestComputeMonotonic tests that passing any single check never lowers the score.
func TestComputeMonotonic(t *testing.T) {
	t.Parallel()

	booleans := []model.CheckName{
		model.CheckHTTPS,
		model.CheckValidSSL,
		model.CheckSafeBrowsing,
		model.CheckValidDomain,
		model.CheckHasContact,
		model.CheckHasPrivacyPolicy,
	}

	// Walk every combination of the boolean checks.
	for mask := 0; mask < 1<<len(booleans); mask++ {
		checks := model.Checks{model.CheckAgeMonths: model.OkInt(-1)}
		for i, name := range booleans {
			checks[name] = model.Ok(mask&(1<<i) != 0)
		}
		base := Compute(checks)

		for i, name := range booleans {
			if mask&(1<<i) != 0 {
				continue
			}
			flipped := model.Checks{}
			for k, v := range checks {
				flipped[k] = v
			}
			flipped[name] = model.Ok(true)
			if got := Compute(flipped); got < base {
				t.Errorf("mask %b: passing %s lowered score %v -> %v", mask, name, base, got)
			}
		}
	}
}

// TestComputeBounds tests that scores stay within [0, 100].
func TestComputeBounds(t *testing.T) {
	t.Parallel()

	for mask := 0; mask < 1<<6; mask++ {
		for _, age := range []int{-1, 0, 12, 24, 60} {
			checks := model.Checks{model.CheckAgeMonths: model.OkInt(age)}
			for i, name := range []model.CheckName{
				model.CheckHTTPS, model.CheckValidSSL, model.CheckSafeBrowsing,
				model.CheckValidDomain, model.CheckHasContact, model.CheckHasPrivacyPolicy,
			} {
				checks[name] = model.Ok(mask&(1<<i) != 0)
			}
			s := Compute(checks)
			if s < MinScore || s > MaxScore {
				t.Errorf("score %v out of bounds", s)
			}
		}
	}
}

// TestWeightsSumToMax tests that the best possible score is exactly 100.
func TestWeightsSumToMax(t *testing.T) {
	t.Parallel()

	var total float64
	for _, w := range Weights() {
		total += w.Points
	}
	total += AgeBonuses()[0].Points
	if total != MaxScore {
		t.Errorf("weights sum to %v, expected %v", total, MaxScore)
	}
}
