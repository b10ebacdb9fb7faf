package downloader

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy bounds how often a single range is re-fetched. MaxAttempts of
// zero retries forever; the context is then the only way out.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy returns five attempts with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// Exhausted reports whether failures has reached the attempt bound.
func (p RetryPolicy) Exhausted(failures int) bool {
	return p.MaxAttempts > 0 && failures >= p.MaxAttempts
}

// Backoff returns the delay before the given retry (1 for the first retry).
func (p RetryPolicy) Backoff(retry int) time.Duration {
	if p.InitialDelay <= 0 || retry <= 0 {
		return 0
	}
	shift := retry - 1
	if shift > 16 {
		shift = 16
	}
	delay := p.InitialDelay * time.Duration(1<<uint(shift))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	// ±25% jitter so requeued ranges do not hit the server in lockstep
	if half := int64(delay / 2); half > 0 {
		jitter := time.Duration(rand.Int63n(half)) - delay/4
		if delay+jitter > 0 {
			delay += jitter
		}
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
