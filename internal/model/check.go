package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// CheckName identifies one signal produced by the probe battery.
// The string values double as JSON keys in evaluation results.
type CheckName string

const (
	// CheckHTTPS reports whether the URL scheme is https.
	CheckHTTPS CheckName = "https"

	// CheckValidSSL reports whether the server presented an unexpired certificate.
	CheckValidSSL CheckName = "validSSL"

	// CheckValidDomain reports whether the host matches the hostname grammar.
	CheckValidDomain CheckName = "validDomain"

	// CheckAgeMonths carries the domain age in months, or -1 when unknown.
	CheckAgeMonths CheckName = "ageMonths"

	// CheckHasContact reports whether a well-known contact page exists.
	CheckHasContact CheckName = "hasContact"

	// CheckHasPrivacyPolicy reports whether a well-known privacy page exists.
	CheckHasPrivacyPolicy CheckName = "hasPrivacyPolicy"

	// CheckSafeBrowsing reports whether the URL is considered safe (true) by
	// the malicious-URL classifier.
	CheckSafeBrowsing CheckName = "safeBrowsing"
)

// UnknownAgeMonths is the sentinel domain age used when no age is available.
const UnknownAgeMonths = -1

// AllChecks returns every check name in display order.
func AllChecks() []CheckName {
	return []CheckName{
		CheckHTTPS,
		CheckValidSSL,
		CheckValidDomain,
		CheckHasContact,
		CheckHasPrivacyPolicy,
		CheckSafeBrowsing,
		CheckAgeMonths,
	}
}

// IsNumeric reports whether the check carries an integer rather than a boolean.
func (c CheckName) IsNumeric() bool {
	return c == CheckAgeMonths
}

// OutcomeStatus tells how a probe arrived at its value.
type OutcomeStatus int

const (
	// StatusOK means the probe ran and observed the value directly.
	StatusOK OutcomeStatus = iota

	// StatusUnknown means the probe had no way to observe the signal
	// (for example no classifier is configured) and the default was used.
	StatusUnknown

	// StatusFailed means the probe ran but hit an error; the default was used.
	StatusFailed
)

// String returns a lowercase name for the status.
func (s OutcomeStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnknown:
		return "unknown"
	case StatusFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// MarshalText encodes the status by name.
func (s OutcomeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *OutcomeStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ok":
		*s = StatusOK
	case "unknown":
		*s = StatusUnknown
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown outcome status %q", string(text))
	}
	return nil
}

// Outcome is the tagged result of a single probe.
//
// Scoring only looks at the value; Status and Reason are kept so failures
// stay visible in logs and reports. An Outcome holds either a boolean or an
// integer, never both.
type Outcome struct {
	Status  OutcomeStatus
	Reason  string
	numeric bool
	flag    bool
	number  int
}

// Ok returns a successful boolean outcome.
func Ok(value bool) Outcome {
	return Outcome{Status: StatusOK, flag: value}
}

// OkInt returns a successful integer outcome.
func OkInt(value int) Outcome {
	return Outcome{Status: StatusOK, numeric: true, number: value}
}

// Unknown returns the default value for name tagged as unknown.
func Unknown(name CheckName, reason string) Outcome {
	o := DefaultOutcome(name)
	o.Status = StatusUnknown
	o.Reason = reason
	return o
}

// Failed returns the default value for name tagged as failed.
func Failed(name CheckName, reason string) Outcome {
	o := DefaultOutcome(name)
	o.Status = StatusFailed
	o.Reason = reason
	return o
}

// DefaultOutcome returns the value a check takes when it cannot be observed:
// -1 for the domain age, true for the malicious-URL check (fail-open) and
// false for everything else.
func DefaultOutcome(name CheckName) Outcome {
	switch name {
	case CheckAgeMonths:
		return OkInt(UnknownAgeMonths)
	case CheckSafeBrowsing:
		return Ok(true)
	default:
		return Ok(false)
	}
}

// Bool returns the boolean value. Integer outcomes report true when positive.
func (o Outcome) Bool() bool {
	if o.numeric {
		return o.number > 0
	}
	return o.flag
}

// Int returns the integer value. Boolean outcomes report 1 or 0.
func (o Outcome) Int() int {
	if o.numeric {
		return o.number
	}
	if o.flag {
		return 1
	}
	return 0
}

// IsNumeric reports whether the outcome holds an integer.
func (o Outcome) IsNumeric() bool {
	return o.numeric
}

// OK reports whether the probe observed its value directly.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// Value returns the raw value as bool or int for serialization.
func (o Outcome) Value() any {
	if o.numeric {
		return o.number
	}
	return o.flag
}

// String renders the value with its status when it is not ok.
func (o Outcome) String() string {
	if o.Status == StatusOK {
		return fmt.Sprint(o.Value())
	}
	if o.Reason == "" {
		return fmt.Sprintf("%v (%s)", o.Value(), o.Status)
	}
	return fmt.Sprintf("%v (%s: %s)", o.Value(), o.Status, o.Reason)
}

// Checks maps every check name to its outcome.
type Checks map[CheckName]Outcome

// Bool returns the boolean value for name, or def when the check is absent.
func (c Checks) Bool(name CheckName, def bool) bool {
	if o, ok := c[name]; ok {
		return o.Bool()
	}
	return def
}

// Int returns the integer value for name, or def when the check is absent.
func (c Checks) Int(name CheckName, def int) int {
	if o, ok := c[name]; ok {
		return o.Int()
	}
	return def
}

// Complete returns a copy of c that has an entry for every check.
// Missing entries are filled with their default value tagged unknown.
func (c Checks) Complete() Checks {
	out := make(Checks, len(AllChecks()))
	for name, o := range c {
		out[name] = o
	}
	for _, name := range AllChecks() {
		if _, ok := out[name]; !ok {
			out[name] = Unknown(name, "not evaluated")
		}
	}
	return out
}

// Diagnostics returns the status and reason of every outcome that was not ok,
// keyed by check name. It returns nil when every check succeeded.
func (c Checks) Diagnostics() map[CheckName]Diagnostic {
	var out map[CheckName]Diagnostic
	for name, o := range c {
		if o.OK() {
			continue
		}
		if out == nil {
			out = make(map[CheckName]Diagnostic)
		}
		out[name] = Diagnostic{Status: o.Status, Reason: o.Reason}
	}
	return out
}

// Names returns the check names present in c, sorted.
func (c Checks) Names() []CheckName {
	names := make([]CheckName, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// MarshalJSON encodes checks as a flat object of plain values,
// e.g. {"https":true,"ageMonths":-1}.
func (c Checks) MarshalJSON() ([]byte, error) {
	values := make(map[CheckName]any, len(c))
	for name, o := range c {
		values[name] = o.Value()
	}
	return json.Marshal(values)
}

// UnmarshalJSON decodes the flat value object written by MarshalJSON.
// Decoded outcomes are tagged ok; statuses travel separately as Diagnostics.
func (c *Checks) UnmarshalJSON(data []byte) error {
	var raw map[CheckName]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Checks, len(raw))
	for name, msg := range raw {
		var b bool
		if err := json.Unmarshal(msg, &b); err == nil {
			out[name] = Ok(b)
			continue
		}
		var n int
		if err := json.Unmarshal(msg, &n); err != nil {
			return fmt.Errorf("check %q: %w", name, err)
		}
		out[name] = OkInt(n)
	}
	*c = out
	return nil
}

// Diagnostic records why a check did not produce an observed value.
type Diagnostic struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}
