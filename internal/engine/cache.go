package engine

import (
	"context"
	"sync"
	"time"

	"statuswatch/internal/models"
)

// unknownTTLCap keeps unknown results from lingering: the next poll should
// retry probing promptly instead of trusting a stale "can't tell".
const unknownTTLCap = 5 * time.Second

type cacheEntry struct {
	sample     models.StatusSample
	computedAt time.Time
	ttl        time.Duration
}

type flight struct {
	done   chan struct{}
	sample models.StatusSample
	err    error
}

// Cache memoises the last computed status sample for a short duration and
// collapses concurrent computations into one. A caller arriving while a
// cycle is in flight waits for and receives that cycle's result instead of
// launching a duplicate probe storm; this holds for force-refresh callers
// too.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	entry    *cacheEntry
	inflight *flight
}

// NewCache creates a cache serving results for ttl per entry.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now}
}

// GetOrCompute returns the live cached sample, or invokes compute and stores
// its result. force skips the freshness check but still joins an in-flight
// computation. Cached returns are marked with CacheHit; the wrapped sample
// (timestamp included) is otherwise identical to the computed one.
func (c *Cache) GetOrCompute(ctx context.Context, force bool, compute func() (models.StatusSample, error)) (models.StatusSample, error) {
	c.mu.Lock()

	if !force && c.entry != nil {
		age := c.now().Sub(c.entry.computedAt)
		// Negative age means clock skew corrupted the entry; treat as a miss.
		if age >= 0 && age < c.entry.ttl {
			sample := c.entry.sample
			sample.CacheHit = true
			c.mu.Unlock()
			return sample, nil
		}
	}

	if f := c.inflight; f != nil {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.sample, f.err
		case <-ctx.Done():
			return models.StatusSample{}, ctx.Err()
		}
	}

	f := &flight{done: make(chan struct{})}
	c.inflight = f
	c.mu.Unlock()

	sample, err := compute()

	c.mu.Lock()
	if err == nil {
		ttl := c.ttl
		if sample.Status == models.StatusUnknown && ttl > unknownTTLCap {
			ttl = unknownTTLCap
		}
		c.entry = &cacheEntry{sample: sample, computedAt: c.now(), ttl: ttl}
	}
	f.sample, f.err = sample, err
	c.inflight = nil
	close(f.done)
	c.mu.Unlock()

	return sample, err
}

// Cached returns the current entry without computing, if still live.
func (c *Cache) Cached() (models.StatusSample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return models.StatusSample{}, false
	}
	age := c.now().Sub(c.entry.computedAt)
	if age < 0 || age >= c.entry.ttl {
		return models.StatusSample{}, false
	}
	return c.entry.sample, true
}
