package engine

import "statuswatch/internal/models"

// Classify maps one cycle's probe outcomes to an overall status. It is pure:
// the caller supplies the prior consecutive all-fail count and receives the
// updated one back.
//
// Dropping to offline requires `threshold` consecutive cycles where every
// probe failed. Any partial success immediately de-escalates and resets the
// counter: a host that answers anything is alive, and the failures are
// individual probes' problems.
func Classify(outcomes []models.ProbeOutcome, consecutiveFailures, threshold int) (models.Status, int) {
	if len(outcomes) == 0 {
		return models.StatusUnknown, consecutiveFailures
	}

	passed := 0
	for _, o := range outcomes {
		if o.Success {
			passed++
		}
	}

	switch {
	case passed == len(outcomes):
		return models.StatusOnline, 0
	case passed == 0:
		consecutiveFailures++
		if consecutiveFailures >= threshold {
			return models.StatusOffline, consecutiveFailures
		}
		// A single bad cycle is not yet trusted as a real outage.
		return models.StatusDegraded, consecutiveFailures
	default:
		return models.StatusDegraded, 0
	}
}
