package probe

import (
	"context"
	"errors"
	"time"

	"statuswatch/internal/models"
)

// Prober performs one connectivity check against one target.
type Prober interface {
	Probe(ctx context.Context) models.ProbeOutcome
}

// errorText normalises probe errors into short outcome descriptors.
// Deadline expiry always reads "timeout" so callers can tell a hung target
// from an actively refused one.
func errorText(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}

func millisSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
