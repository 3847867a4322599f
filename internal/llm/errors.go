package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyCompletion is wrapped by GenerationError when the backend answers
// with nothing but whitespace.
var ErrEmptyCompletion = errors.New("empty completion")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered with a payload that
// carries no usable text.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrConfiguration reports missing or rejected credentials, or an unknown
// provider. It is fatal and never retried.
type ErrConfiguration struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ErrConfiguration) Error() string {
	msg := fmt.Sprintf("LLM configuration error (%s): %s", e.Provider, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrConfiguration) Unwrap() error { return e.Err }

// GenerationError is returned by Client.Complete when no usable text could
// be produced. Err is the last upstream error, unchanged.
type GenerationError struct {
	Model    string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation failed (model %s, %d attempt(s)): %v", e.Model, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
