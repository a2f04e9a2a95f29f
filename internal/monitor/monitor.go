// Package monitor drives the engine on a fixed interval. The engine itself
// does no scheduling; monitor mode and serve mode are just repeated calls
// to Status.
package monitor

import (
	"context"
	"log"
	"time"

	"statuswatch/internal/engine"
	"statuswatch/internal/models"
)

// Loop polls the engine with force-refresh on each tick and hands every
// computed sample to the callback.
type Loop struct {
	engine   *engine.Engine
	interval time.Duration
	onSample func(models.StatusSample)

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a polling loop. Intervals below one second are clamped.
func New(eng *engine.Engine, interval time.Duration, onSample func(models.StatusSample)) *Loop {
	if interval < time.Second {
		interval = time.Second
	}
	return &Loop{
		engine:   eng,
		interval: interval,
		onSample: onSample,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the polling loop in a goroutine.
func (l *Loop) Start() {
	go l.run()
}

// Stop requests graceful loop termination and waits until it is done.
func (l *Loop) Stop() {
	select {
	case <-l.doneCh:
		return
	default:
	}
	close(l.stopCh)
	<-l.doneCh
}

func (l *Loop) run() {
	defer close(l.doneCh)

	l.tick()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.tick()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Loop) tick() {
	// Per-probe timeouts inside the engine already bound the cycle.
	sample, err := l.engine.Status(context.Background(), true)
	if err != nil {
		log.Printf("status cycle failed: %v", err)
		return
	}
	if l.onSample != nil {
		l.onSample(sample)
	}
}
