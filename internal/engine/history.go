package engine

import (
	"math"
	"sync"
	"time"

	"statuswatch/internal/models"
)

// History is a bounded, time-ordered record of past status samples. It is
// the single owner of the consecutive-failure counter the classifier reads;
// Record keeps the two in sync.
type History struct {
	ring *Ring[models.StatusSample]

	mu             sync.RWMutex
	failures       int
	lastSeenOnline time.Time
}

// NewHistory creates a tracker retaining at most capacity samples.
func NewHistory(capacity int) *History {
	return &History{ring: NewRing[models.StatusSample](capacity)}
}

// Record appends a sample, evicting the oldest when at capacity, and updates
// the failure run length. A sample with any passing probe resets the counter;
// an all-fail sample extends it. Unknown samples (no probes ran) leave the
// counter untouched.
func (h *History) Record(sample models.StatusSample) {
	h.ring.Add(sample)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.applyLocked(sample)
}

// applyLocked folds one sample into the failure run length and last-online
// timestamp. Gateway diagnostics are ignored: the counter tracks the host.
func (h *History) applyLocked(sample models.StatusSample) {
	host := sample.HostOutcomes()
	if len(host) > 0 {
		passed := 0
		for _, o := range host {
			if o.Success {
				passed++
			}
		}
		if passed > 0 {
			h.failures = 0
		} else {
			h.failures++
		}
	}
	if sample.Status.Online() {
		h.lastSeenOnline = sample.Timestamp
	}
}

// ConsecutiveFailures returns the current run length of all-probes-failed
// samples counted backward from the most recent sample.
func (h *History) ConsecutiveFailures() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.failures
}

// LastSeenOnline returns the timestamp of the most recent online or degraded
// sample; the zero time if the host has never been seen online.
func (h *History) LastSeenOnline() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastSeenOnline
}

// UptimePercent computes the share of samples within [now-window, now] that
// were online. With no samples in the window there is nothing to hold
// against the host, so it returns 100.
func (h *History) UptimePercent(window time.Duration, now time.Time) float64 {
	cutoff := now.Add(-window)

	total, online := 0, 0
	for _, s := range h.ring.All() {
		if s.Timestamp.Before(cutoff) || s.Timestamp.After(now) {
			continue
		}
		total++
		if s.Online {
			online++
		}
	}
	if total == 0 {
		return 100.0
	}
	return round2(float64(online) / float64(total) * 100)
}

// Samples returns a copy of the retained samples, oldest first.
func (h *History) Samples() []models.StatusSample {
	return h.ring.All()
}

// Latest returns the most recent sample.
func (h *History) Latest() (models.StatusSample, bool) {
	return h.ring.Last()
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return h.ring.Len()
}

// Restore seeds the tracker from a persisted snapshot, recomputing the
// failure run length and last-online timestamp from the samples themselves.
func (h *History) Restore(samples []models.StatusSample) {
	h.ring.Reset(samples)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = 0
	h.lastSeenOnline = time.Time{}
	for _, s := range h.ring.All() {
		h.applyLocked(s)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
