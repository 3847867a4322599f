package llm

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/puzzlegen/internal/retry"
)

// Policy builds the generic retry policy used by Client from config.
func (c RetryConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   c.BaseDelay,
		MaxDelay:    c.MaxDelay,
		Jitter:      c.Jitter,
		Retryable:   IsTransient,
		MinWait:     retryAfter,
	}
}

// IsTransient reports whether err is worth another attempt.
func IsTransient(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var cfgErr *ErrConfiguration
	if errors.As(err, &cfgErr) {
		return false
	}

	// Max tokens is a configuration issue, not transient.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// An empty answer is handled like a malformed one: repaired or
	// surfaced, not retried.
	if errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		return false
	}

	// Rate limits, unavailability and network errors are transient.
	return true
}

// retryAfter honours a provider's Retry-After hint for rate limits.
func retryAfter(err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}
