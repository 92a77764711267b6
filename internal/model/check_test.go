package model

import (
	"encoding/json"
	"testing"
)

// TestDefaultOutcome tests the documented defaults for unobservable checks.
func TestDefaultOutcome(t *testing.T) {
	t.Parallel()

	t.Run("safeBrowsing defaults to safe", func(t *testing.T) {
		t.Parallel()
		if !DefaultOutcome(CheckSafeBrowsing).Bool() {
			t.Error("expected safeBrowsing to default to true")
		}
	})

	t.Run("ageMonths defaults to -1", func(t *testing.T) {
		t.Parallel()
		o := DefaultOutcome(CheckAgeMonths)
		if !o.IsNumeric() || o.Int() != UnknownAgeMonths {
			t.Errorf("expected numeric -1, got %v", o)
		}
	})

	t.Run("boolean checks default to false", func(t *testing.T) {
		t.Parallel()
		for _, name := range []CheckName{CheckHTTPS, CheckValidSSL, CheckValidDomain, CheckHasContact, CheckHasPrivacyPolicy} {
			if DefaultOutcome(name).Bool() {
				t.Errorf("expected %s to default to false", name)
			}
		}
	})
}

// TestFailedOutcome tests that failures keep their reason and default value.
func TestFailedOutcome(t *testing.T) {
	t.Parallel()

	o := Failed(CheckValidSSL, "handshake timeout")
	if o.OK() {
		t.Error("failed outcome must not be ok")
	}
	if o.Status != StatusFailed {
		t.Errorf("expected failed status, got %s", o.Status)
	}
	if o.Bool() {
		t.Error("failed validSSL must carry false")
	}
	if o.Reason != "handshake timeout" {
		t.Errorf("unexpected reason %q", o.Reason)
	}
	if o.String() != "false (failed: handshake timeout)" {
		t.Errorf("unexpected string %q", o.String())
	}

	u := Unknown(CheckSafeBrowsing, "no classifier")
	if !u.Bool() || u.Status != StatusUnknown {
		t.Errorf("unexpected unknown outcome %v", u)
	}
}

// TestChecksComplete tests that Complete fills every missing check.
func TestChecksComplete(t *testing.T) {
	t.Parallel()

	checks := Checks{CheckHTTPS: Ok(true)}
	complete := checks.Complete()

	if len(complete) != len(AllChecks()) {
		t.Fatalf("expected %d checks, got %d", len(AllChecks()), len(complete))
	}
	if !complete.Bool(CheckHTTPS, false) {
		t.Error("existing outcome must be preserved")
	}
	if complete[CheckValidSSL].Status != StatusUnknown {
		t.Error("filled outcome must be tagged unknown")
	}
	if len(checks) != 1 {
		t.Error("Complete must not modify the receiver")
	}
}

// TestChecksAccessors tests defaults for absent keys.
func TestChecksAccessors(t *testing.T) {
	t.Parallel()

	var checks Checks
	if !checks.Bool(CheckSafeBrowsing, true) {
		t.Error("absent check should return the supplied default")
	}
	if checks.Int(CheckAgeMonths, -1) != -1 {
		t.Error("absent age should return the supplied default")
	}
}

// TestChecksJSON tests the flat JSON encoding of checks.
func TestChecksJSON(t *testing.T) {
	t.Parallel()

	checks := Checks{
		CheckHTTPS:     Ok(true),
		CheckAgeMonths: OkInt(-1),
		CheckValidSSL:  Failed(CheckValidSSL, "refused"),
	}

	data, err := json.Marshal(checks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `{"ageMonths":-1,"https":true,"validSSL":false}`
	if string(data) != expected {
		t.Errorf("got %s, expected %s", data, expected)
	}

	var decoded Checks
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded[CheckAgeMonths].IsNumeric() || decoded[CheckAgeMonths].Int() != -1 {
		t.Errorf("ageMonths did not decode as integer: %v", decoded[CheckAgeMonths])
	}
	if !decoded.Bool(CheckHTTPS, false) {
		t.Error("https did not decode as true")
	}
}

// TestChecksDiagnostics tests that only non-ok outcomes are reported.
func TestChecksDiagnostics(t *testing.T) {
	t.Parallel()

	checks := Checks{
		CheckHTTPS:        Ok(true),
		CheckSafeBrowsing: Unknown(CheckSafeBrowsing, "no classifier configured"),
	}
	diag := checks.Diagnostics()
	if len(diag) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(diag))
	}
	if diag[CheckSafeBrowsing].Status != StatusUnknown {
		t.Errorf("unexpected diagnostic %+v", diag[CheckSafeBrowsing])
	}

	if (Checks{CheckHTTPS: Ok(false)}).Diagnostics() != nil {
		t.Error("expected nil diagnostics when every check is ok")
	}
}
