package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"statuswatch/internal/config"
	"statuswatch/internal/models"
	"statuswatch/internal/probe"
)

// CycleRunner executes one full probe cycle. Satisfied by *probe.Runner;
// tests substitute stubs.
type CycleRunner interface {
	Run(ctx context.Context) (probe.Result, error)
}

// Engine is the single entry point for status determination: cache, probe
// runner, classifier and history composed behind Status. One Engine monitors
// one target host; callers hold and thread the instance, there are no
// package-level singletons.
type Engine struct {
	cfg     config.Config
	runner  CycleRunner
	cache   *Cache
	history *History
	now     func() time.Time
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithClock substitutes the time source, used for TTL and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRunner substitutes the probe cycle runner.
func WithRunner(r CycleRunner) Option {
	return func(e *Engine) { e.runner = r }
}

// New validates the configuration and builds an engine. Malformed settings
// fail here, before any probing.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		history: NewHistory(cfg.HistoryCapacity),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = probe.NewRunner(cfg)
	}
	e.cache = NewCache(cfg.CacheTTL(), func() time.Time { return e.now() })
	return e, nil
}

// Status returns the current connectivity status, serving a cached sample
// when one is still live unless forceRefresh is set. Every call that
// actually computes appends exactly one sample to history.
func (e *Engine) Status(ctx context.Context, forceRefresh bool) (models.StatusSample, error) {
	return e.cache.GetOrCompute(ctx, forceRefresh, func() (models.StatusSample, error) {
		return e.computeCycle(ctx)
	})
}

func (e *Engine) computeCycle(ctx context.Context) (models.StatusSample, error) {
	now := e.now()

	result, err := e.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, probe.ErrLocalNetworkUnavailable) {
			// Probing could not execute at all. Record the blind spot; the
			// next cycle retries naturally.
			sample := models.StatusSample{
				ID:             uuid.NewString(),
				Timestamp:      now,
				Status:         models.StatusUnknown,
				ServerAddress:  e.cfg.Addresses[0],
				UptimePercent:  e.history.UptimePercent(e.cfg.UptimeWindow(), now),
				LastSeenOnline: e.history.LastSeenOnline(),
				Error:          err.Error(),
			}
			e.history.Record(sample)
			return sample, nil
		}
		return models.StatusSample{}, fmt.Errorf("probe cycle: %w", err)
	}

	// Gateway probes describe the local path, not the host; a reachable
	// gateway must not keep a dead server out of offline.
	status, _ := Classify(models.HostOutcomes(result.Outcomes), e.history.ConsecutiveFailures(), e.cfg.FailureThreshold)

	sample := models.StatusSample{
		ID:            uuid.NewString(),
		Timestamp:     now,
		Status:        status,
		Online:        status.Online(),
		ServerAddress: result.ServerAddress,
		Outcomes:      result.Outcomes,
		Services:      result.Services,
		// Uptime covers prior cycles; the current one lands in history below.
		UptimePercent: e.history.UptimePercent(e.cfg.UptimeWindow(), now),
	}
	if sample.Online {
		sample.LastSeenOnline = now
	} else {
		sample.LastSeenOnline = e.history.LastSeenOnline()
	}

	e.history.Record(sample)
	return sample, nil
}

// History returns a copy of the retained samples, oldest first.
func (e *Engine) History() []models.StatusSample {
	return e.history.Samples()
}

// Latest returns the most recent sample without triggering a computation.
func (e *Engine) Latest() (models.StatusSample, bool) {
	return e.history.Latest()
}

// UptimePercent reports rolling uptime over the configured window.
func (e *Engine) UptimePercent() float64 {
	return e.history.UptimePercent(e.cfg.UptimeWindow(), e.now())
}

// UptimeWindow exposes the configured rolling window.
func (e *Engine) UptimeWindow() time.Duration {
	return e.cfg.UptimeWindow()
}

// RestoreHistory seeds history from a persisted snapshot.
func (e *Engine) RestoreHistory(samples []models.StatusSample) {
	e.history.Restore(samples)
}
