package politeness

import (
	"context"
	"math/rand"
	"time"

	"newsarchive/internal/ports"
)

// RandomDelayer pauses for a uniformly random duration in [min, max] each
// time Wait is called. It is a per-call sleep, not a rate limiter: total
// throughput is simply calls x average delay, which is all the politeness
// this client needs at its scale.
type RandomDelayer struct {
	min time.Duration
	max time.Duration
}

var _ ports.Delayer = (*RandomDelayer)(nil)

// NewRandomDelayer builds a delayer over [min, max]. A non-positive range
// collapses to a no-op, which the tests rely on.
func NewRandomDelayer(min, max time.Duration) *RandomDelayer {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &RandomDelayer{min: min, max: max}
}

// Wait blocks for the drawn duration or until ctx is done, whichever comes
// first.
func (d *RandomDelayer) Wait(ctx context.Context) {
	pause := d.draw()
	if pause <= 0 {
		return
	}

	timer := time.NewTimer(pause)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (d *RandomDelayer) draw() time.Duration {
	span := d.max - d.min
	if span <= 0 {
		return d.min
	}
	return d.min + time.Duration(rand.Int63n(int64(span)+1))
}
