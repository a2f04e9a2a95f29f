package engine

import (
	"testing"

	"statuswatch/internal/models"
)

func outcomes(successes ...bool) []models.ProbeOutcome {
	out := make([]models.ProbeOutcome, len(successes))
	for i, ok := range successes {
		out[i] = models.ProbeOutcome{
			Method:  models.MethodPort,
			Target:  "192.168.2.2:22",
			Success: ok,
		}
	}
	return out
}

func TestClassifyAllPass(t *testing.T) {
	status, failures := Classify(outcomes(true, true, true), 2, 3)
	if status != models.StatusOnline {
		t.Errorf("expected online, got %s", status)
	}
	if failures != 0 {
		t.Errorf("expected failure counter reset to 0, got %d", failures)
	}
}

func TestClassifyEmptyIsUnknown(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100} {
		status, failures := Classify(nil, n, 3)
		if status != models.StatusUnknown {
			t.Errorf("failures=%d: expected unknown, got %s", n, status)
		}
		if failures != n {
			t.Errorf("failures=%d: counter should be untouched, got %d", n, failures)
		}
	}
}

func TestClassifyAllFailHysteresis(t *testing.T) {
	const threshold = 3

	want := []models.Status{models.StatusDegraded, models.StatusDegraded, models.StatusOffline}
	failures := 0
	for i, expected := range want {
		var status models.Status
		status, failures = Classify(outcomes(false, false), failures, threshold)
		if status != expected {
			t.Fatalf("cycle %d: expected %s, got %s", i+1, expected, status)
		}
	}

	// One success cycle resets the counter; the next all-fail streak must
	// again reach the threshold before offline.
	_, failures = Classify(outcomes(true, false), failures, threshold)
	if failures != 0 {
		t.Fatalf("expected reset after partial success, got %d", failures)
	}
	status, _ := Classify(outcomes(false, false), failures, threshold)
	if status != models.StatusDegraded {
		t.Errorf("first all-fail after reset should be degraded, got %s", status)
	}
}

func TestClassifyPartialSuccessDeEscalates(t *testing.T) {
	// Even deep into an outage, one passing probe means degraded at once.
	status, failures := Classify(outcomes(true, false, false, false), 10, 3)
	if status != models.StatusDegraded {
		t.Errorf("expected degraded, got %s", status)
	}
	if failures != 0 {
		t.Errorf("expected counter reset, got %d", failures)
	}
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []models.ProbeOutcome
		failures int
		want     models.Status
	}{
		{"single pass", outcomes(true), 0, models.StatusOnline},
		{"single fail below threshold", outcomes(false), 0, models.StatusDegraded},
		{"single fail at threshold", outcomes(false), 2, models.StatusOffline},
		{"mixed", outcomes(true, false), 2, models.StatusDegraded},
		{"empty", nil, 2, models.StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := Classify(tt.outcomes, tt.failures, 3)
			if status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, status)
			}
		})
	}
}
