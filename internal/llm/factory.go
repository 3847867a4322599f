package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/puzzlegen/internal/store"
)

// NewProvider creates the configured backend wrapped with request logging.
// Retries are not applied here; Client owns them.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewScriptedMockProvider(cannedPuzzleResponse)
	default:
		return nil, &ErrConfiguration{Provider: cfg.Provider, Reason: "unknown provider"}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(cfg.Provider, base, eventRepo, logger), nil
}

// NewClientFromConfig builds the provider and wraps it in a Client using
// the configured retry policy.
func NewClientFromConfig(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger, opts ...ClientOption) (*Client, error) {
	p, err := NewProvider(ctx, cfg, eventRepo, logger)
	if err != nil {
		return nil, err
	}
	return NewClient(p, cfg.Retry.Policy(), append([]ClientOption{WithLogger(logger)}, opts...)...), nil
}
