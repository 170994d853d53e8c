// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound requests so that consecutive requests start at
// least interval apart. It is safe for concurrent use.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter returns a Limiter enforcing interval between requests.
// A non-positive interval disables throttling.
func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{rl: rate.NewLimiter(rate.Inf, 1)}
	}
	// A burst of one turns the token bucket into a fixed minimum gap.
	return &Limiter{rl: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the caller's slot arrives or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.rl == nil {
		return ctx.Err()
	}
	if err := l.rl.Wait(ctx); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		// The slot lies beyond ctx's deadline.
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}

// Sleep pauses for d, returning early with ctx.Err() if ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
