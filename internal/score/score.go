package score

import "github.com/DOVA00/checking-links/internal/model"

// Score bounds.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Weight is the contribution of one boolean check when it passes.
type Weight struct {
	Check  model.CheckName
	Points float64

	// Default is the value assumed when the check is absent.
	Default bool
}

// weights lists the boolean checks and their fixed contribution.
// The malicious-URL check defaults to safe, matching the prober's
// fail-open policy.
var weights = []Weight{
	{Check: model.CheckHTTPS, Points: 20},
	{Check: model.CheckValidSSL, Points: 20},
	{Check: model.CheckSafeBrowsing, Points: 25, Default: true},
	{Check: model.CheckValidDomain, Points: 10},
	{Check: model.CheckHasContact, Points: 10},
	{Check: model.CheckHasPrivacyPolicy, Points: 10},
}

// AgeBonus is the bonus awarded to domains at least MinMonths old.
type AgeBonus struct {
	MinMonths int
	Points    float64
}

// ageBonuses is ordered from the largest threshold down.
var ageBonuses = []AgeBonus{
	{MinMonths: 60, Points: 10},
	{MinMonths: 24, Points: 8},
	{MinMonths: 12, Points: 5},
}

// Weights returns a copy of the boolean check weights.
func Weights() []Weight {
	out := make([]Weight, len(weights))
	copy(out, weights)
	return out
}

// AgeBonuses returns a copy of the domain age bonus table.
func AgeBonuses() []AgeBonus {
	out := make([]AgeBonus, len(ageBonuses))
	copy(out, ageBonuses)
	return out
}

// Compute returns the weighted trust score for checks, clamped to [0, 100].
// Absent boolean checks take their Weight.Default; an absent or negative
// domain age earns no bonus.
func Compute(checks model.Checks) float64 {
	var total float64
	for _, w := range weights {
		if checks.Bool(w.Check, w.Default) {
			total += w.Points
		}
	}
	total += AgeBonusFor(checks.Int(model.CheckAgeMonths, model.UnknownAgeMonths))
	return clamp(total)
}

// AgeBonusFor returns the bonus for a domain age in months.
func AgeBonusFor(months int) float64 {
	for _, b := range ageBonuses {
		if months >= b.MinMonths {
			return b.Points
		}
	}
	return 0
}

func clamp(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
