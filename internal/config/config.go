// Package config loads puzzlegen settings from an optional YAML file, a
// .env file and PUZZLEGEN_ environment variables.
package config

import (
	"time"

	"github.com/abhisek/puzzlegen/internal/llm"
	"github.com/abhisek/puzzlegen/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	LLM        LLMConfig        `mapstructure:"llm"`
	Retry      RetryConfig      `mapstructure:"retry"`
	Generation GenerationConfig `mapstructure:"generation"`
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

// LLMConfig selects and configures the text generation backend.
type LLMConfig struct {
	Provider   string         `mapstructure:"provider" validate:"required,oneof=anthropic openai gemini openrouter mock"`
	Timeout    time.Duration  `mapstructure:"timeout" validate:"gt=0"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

// ProviderConfig holds the settings shared by every backend.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// RetryConfig configures retries of transient upstream failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	BaseDelay   time.Duration `mapstructure:"base_delay" validate:"gte=0"`
	MaxDelay    time.Duration `mapstructure:"max_delay" validate:"gte=0"`
	Jitter      float64       `mapstructure:"jitter" validate:"gte=0,lte=1"`
}

// GenerationConfig controls the completions each step requests.
type GenerationConfig struct {
	// Model overrides the provider's default model when set.
	Model            string  `mapstructure:"model"`
	MaxTokens        int     `mapstructure:"max_tokens" validate:"gte=1"`
	ContentMaxTokens int     `mapstructure:"content_max_tokens" validate:"gte=1"`
	Temperature      float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Language         string  `mapstructure:"language" validate:"required"`

	// HistorySize is how many answers are remembered per puzzle type.
	HistorySize int `mapstructure:"history_size" validate:"gte=0"`

	// AvoidCount is how many of them are listed in content prompts.
	AvoidCount int `mapstructure:"avoid_count" validate:"gte=0"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// StoreConfig configures the SQLite log of LLM requests.
type StoreConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path is the database file. Empty uses the default data directory.
	Path string `mapstructure:"path"`
}

// RedisConfig configures the shared answer history. An empty URL keeps
// the history in memory.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// LLMSettings converts the loaded values into an llm.Config. When the
// selected provider has no key, the standard API key variables are
// probed; the second result reports whether a usable key was found.
func (c Config) LLMSettings() (llm.Config, bool) {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}

	cfg.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	setIf(&cfg.Anthropic.Model, c.LLM.Anthropic.Model)

	cfg.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	setIf(&cfg.OpenAI.Model, c.LLM.OpenAI.Model)
	setIf(&cfg.OpenAI.BaseURL, c.LLM.OpenAI.BaseURL)

	cfg.Gemini.APIKey = c.LLM.Gemini.APIKey
	setIf(&cfg.Gemini.Model, c.LLM.Gemini.Model)

	cfg.OpenRouter.APIKey = c.LLM.OpenRouter.APIKey
	setIf(&cfg.OpenRouter.Model, c.LLM.OpenRouter.Model)
	setIf(&cfg.OpenRouter.BaseURL, c.LLM.OpenRouter.BaseURL)

	cfg.Retry = llm.RetryConfig{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   c.Retry.BaseDelay,
		MaxDelay:    c.Retry.MaxDelay,
		Jitter:      c.Retry.Jitter,
	}
	return llm.Discover(cfg)
}

// StrategySettings converts the generation section into a strategy.Config.
func (c Config) StrategySettings() strategy.Config {
	return strategy.Config{
		Model:            c.Generation.Model,
		MaxTokens:        c.Generation.MaxTokens,
		ContentMaxTokens: c.Generation.ContentMaxTokens,
		Temperature:      c.Generation.Temperature,
		MaxAvoid:         c.Generation.AvoidCount,
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
