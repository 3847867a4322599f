// Package retry runs an operation with bounded attempts and exponential
// backoff. It knows nothing about what is being retried.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Policy configures Do.
type Policy struct {
	// MaxAttempts is the total number of calls, including the first.
	// Default: 3.
	MaxAttempts int

	// BaseDelay is the wait after the first failure. The wait after
	// attempt n is BaseDelay * 2^(n-1). Default: 1s.
	BaseDelay time.Duration

	// MaxDelay caps a single computed wait. Zero means no cap.
	MaxDelay time.Duration

	// Jitter adds a random extra wait in [0, Jitter*wait). Range 0.0-1.0.
	// Jitter never shortens a wait.
	Jitter float64

	// Retryable reports whether err is worth another attempt.
	// Nil treats every error as retryable.
	Retryable func(err error) bool

	// MinWait lets the caller raise the wait for a specific error, e.g. a
	// Retry-After hint. Values below the computed wait are ignored.
	MinWait func(err error) time.Duration

	// OnRetry is called before each sleep with the error and the 1-based
	// number of the attempt that just failed.
	OnRetry func(err error, attempt int)

	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default returns a Policy with three attempts and a one second base delay.
func Default() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, or runs
// out of attempts. The last error is returned as is.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(err, attempt)
		}
		if serr := p.Sleep(ctx, p.Wait(attempt, err)); serr != nil {
			return zero, serr
		}
	}

	return zero, lastErr
}

// Wait returns how long to sleep after the given failed attempt (1-based).
func (p Policy) Wait(attempt int, err error) time.Duration {
	p = p.withDefaults()

	wait := p.BaseDelay << (attempt - 1)
	if wait < p.BaseDelay {
		// Shift overflowed.
		wait = time.Duration(math.MaxInt64)
	}
	if p.MaxDelay > 0 && wait > p.MaxDelay {
		wait = p.MaxDelay
	}

	if p.Jitter > 0 && wait < math.MaxInt64/2 {
		wait += time.Duration(float64(wait) * p.Jitter * rand.Float64())
	}

	if p.MinWait != nil && err != nil {
		if floor := p.MinWait(err); floor > wait {
			wait = floor
		}
	}
	return wait
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.Sleep == nil {
		p.Sleep = sleep
	}
	return p
}

func sleep(ctx context.Context, d time.Duration) error {
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
