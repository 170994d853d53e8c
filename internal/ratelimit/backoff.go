// internal/ratelimit/backoff.go
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Backoff computes exponential delays: Base doubled per attempt, capped at Max.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before retrying after the given zero-based attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Decision is a classifier's verdict on a failed attempt.
type Decision struct {
	Retry bool
	// Wait overrides the backoff delay when positive, e.g. until a rate-limit
	// reset. It is still capped at Backoff.Max.
	Wait time.Duration
}

// Policy retries an operation a bounded number of times.
type Policy struct {
	Attempts int
	Backoff  Backoff
	// OnRetry is called before each wait. Optional.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Do runs fn until it succeeds, classify says stop, attempts run out, or ctx
// is done. The last error is returned when retries are exhausted. When ctx
// ends the run, the context error is joined with the last failure.
func (p Policy) Do(ctx context.Context, classify func(error) Decision, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return errors.Join(cerr, err)
		}

		d := classify(err)
		if !d.Retry || attempt == attempts-1 {
			return err
		}

		wait := p.Backoff.Delay(attempt)
		if d.Wait > 0 {
			wait = d.Wait
			if p.Backoff.Max > 0 && wait > p.Backoff.Max {
				wait = p.Backoff.Max
			}
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, wait, err)
		}
		if serr := Sleep(ctx, wait); serr != nil {
			return errors.Join(serr, err)
		}
	}
	return err
}
