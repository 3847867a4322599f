package llm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/puzzlegen/internal/retry"
)

// CompleteOptions are the per-call knobs of Client.Complete.
type CompleteOptions struct {
	// Model overrides the provider default when non-empty.
	Model string

	MaxTokens   int
	Temperature float64

	// JSON asks for a JSON object where the backend supports it.
	JSON bool
}

// RetryObserver is told about every retry Client makes.
type RetryObserver interface {
	ObserveRetry(model string)
}

// Client is the single text-generation call the puzzle pipeline needs:
// system and user instructions in, generated text out. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	provider Provider
	policy   retry.Policy
	logger   *zap.Logger
	observer RetryObserver
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithRetryObserver reports retries, typically to metrics.
func WithRetryObserver(o RetryObserver) ClientOption {
	return func(c *Client) { c.observer = o }
}

// NewClient wraps provider with the given retry policy. A zero policy gets
// the defaults of three attempts and a one second base delay.
func NewClient(provider Provider, policy retry.Policy, opts ...ClientOption) *Client {
	if policy.Retryable == nil {
		policy.Retryable = IsTransient
	}
	if policy.MinWait == nil {
		policy.MinWait = retryAfter
	}
	c := &Client{
		provider: provider,
		policy:   policy,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ModelID returns the provider's default model.
func (c *Client) ModelID() string {
	return c.provider.ModelID()
}

// Complete generates text for the given instructions. It fails with
// *GenerationError when every attempt fails or the text is blank.
func (c *Client) Complete(ctx context.Context, system, user string, opts CompleteOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = c.provider.ModelID()
	}

	req := Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		JSON:        opts.JSON,
	}

	attempts := 0
	policy := c.policy
	userOnRetry := policy.OnRetry
	policy.OnRetry = func(err error, attempt int) {
		c.logger.Warn("retrying text generation",
			zap.String("model", model),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if c.observer != nil {
			c.observer.ObserveRetry(model)
		}
		if userOnRetry != nil {
			userOnRetry(err, attempt)
		}
	}

	text, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		attempts++
		resp, err := c.provider.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(resp.Content) == "" {
			if resp.StopReason == "max_tokens" {
				return "", &ErrMaxTokensExceeded{Content: resp.Content}
			}
			return "", ErrEmptyCompletion
		}
		return resp.Content, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
			return "", err
		}
		return "", &GenerationError{Model: model, Attempts: attempts, Err: err}
	}
	return text, nil
}

// ValidateConnection makes one small completion without retries and
// reports whether the backend answered. Meant for health checks.
func (c *Client) ValidateConnection(ctx context.Context) bool {
	resp, err := c.provider.Generate(WithPurpose(ctx, "health-check"), Request{
		System:    "You are a health check endpoint.",
		Messages:  []Message{{Role: RoleUser, Content: "Reply with the single word OK."}},
		MaxTokens: 8,
	})
	if err != nil {
		c.logger.Warn("LLM connection check failed", zap.String("model", c.provider.ModelID()), zap.Error(err))
		return false
	}
	return strings.TrimSpace(resp.Content) != ""
}
