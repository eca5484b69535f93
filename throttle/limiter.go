// Package throttle caps outbound telemetry frequency.
//
// The limiter is a back-pressure mechanism, not a scheduler: one sequential
// consumer blocks in Throttle before each send, which in turn stalls polling
// upstream. There is no queueing and no fairness across callers.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/teranos/simwire/errors"
)

// Limiter enforces a minimum interval between consecutive sends.
type Limiter struct {
	limiter *rate.Limiter
	maxHz   float64
}

// New builds a limiter capping sends at maxHz per second.
func New(maxHz float64) (*Limiter, error) {
	if maxHz <= 0 {
		return nil, errors.Newf("max send frequency must be positive, got %g Hz", maxHz)
	}
	// Burst of one token: the first call proceeds immediately, every
	// subsequent call completes at least 1/maxHz after the previous one.
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(maxHz), 1),
		maxHz:   maxHz,
	}, nil
}

// Throttle blocks until a send is permitted. Returns the context error if
// cancelled mid-wait, so shutdown is not held up by a pending slot.
func (l *Limiter) Throttle(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Interval returns the minimum spacing between sends.
func (l *Limiter) Interval() time.Duration {
	return time.Duration(float64(time.Second) / l.maxHz)
}

// MaxHz returns the configured frequency cap.
func (l *Limiter) MaxHz() float64 {
	return l.maxHz
}
