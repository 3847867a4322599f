package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PUZZLEGEN_LLM_PROVIDER",
	"PUZZLEGEN_LLM_TIMEOUT",
	"PUZZLEGEN_LLM_OPENAI_API_KEY",
	"PUZZLEGEN_LLM_OPENAI_BASE_URL",
	"PUZZLEGEN_LLM_ANTHROPIC_API_KEY",
	"PUZZLEGEN_RETRY_MAX_ATTEMPTS",
	"PUZZLEGEN_RETRY_BASE_DELAY",
	"PUZZLEGEN_GENERATION_TEMPERATURE",
	"PUZZLEGEN_GENERATION_LANGUAGE",
	"PUZZLEGEN_LOG_LEVEL",
	"PUZZLEGEN_LOG_FORMAT",
	"PUZZLEGEN_REDIS_URL",
	"GEMINI_API_KEY",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"OPENROUTER_API_KEY",
}

// isolate runs the test in an empty directory with no puzzlegen or API
// key variables set.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxDelay)
	assert.InDelta(t, 0.25, cfg.Retry.Jitter, 1e-9)
	assert.Equal(t, 256, cfg.Generation.MaxTokens)
	assert.Equal(t, 1024, cfg.Generation.ContentMaxTokens)
	assert.InDelta(t, 0.8, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, "English", cfg.Generation.Language)
	assert.Equal(t, 50, cfg.Generation.HistorySize)
	assert.Equal(t, 10, cfg.Generation.AvoidCount)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Store.Enabled)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PUZZLEGEN_LLM_PROVIDER", "openai")
	t.Setenv("PUZZLEGEN_LLM_OPENAI_API_KEY", "sk-env")
	t.Setenv("PUZZLEGEN_RETRY_BASE_DELAY", "250ms")
	t.Setenv("PUZZLEGEN_GENERATION_TEMPERATURE", "0.3")
	t.Setenv("PUZZLEGEN_LOG_FORMAT", "json")
	t.Setenv("PUZZLEGEN_REDIS_URL", "redis://localhost:6379/2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
	assert.InDelta(t, 0.3, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
llm:
  provider: gemini
  timeout: 90s
  gemini:
    api_key: g-file
    model: gemini-2.0-flash
generation:
  language: French
  history_size: 5
log:
  level: debug
store:
  enabled: false
`)
	t.Setenv("PUZZLEGEN_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "g-file", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, "French", cfg.Generation.Language)
	assert.Equal(t, 5, cfg.Generation.HistorySize)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, "warn", cfg.Log.Level, "environment wins over the file")
	assert.Equal(t, 1024, cfg.Generation.ContentMaxTokens, "unset keys keep defaults")
}

func TestLoadFindsFileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "puzzlegen.yaml"), "llm:\n  provider: mock\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "PUZZLEGEN_LOG_LEVEL=debug\nOPENAI_API_KEY=sk-dotenv\n")
	// godotenv never overrides set variables, so unset them; t.Setenv
	// above restores them afterwards.
	for _, k := range []string{"PUZZLEGEN_LOG_LEVEL", "OPENAI_API_KEY"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	llmCfg, ok := cfg.LLMSettings()
	assert.True(t, ok)
	assert.Equal(t, "openai", llmCfg.Provider)
	assert.Equal(t, "sk-dotenv", llmCfg.OpenAI.APIKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "PUZZLEGEN_LLM_PROVIDER", "bogus"},
		{"unknown log level", "PUZZLEGEN_LOG_LEVEL", "loud"},
		{"unknown log format", "PUZZLEGEN_LOG_FORMAT", "xml"},
		{"temperature too high", "PUZZLEGEN_GENERATION_TEMPERATURE", "3"},
		{"no attempts", "PUZZLEGEN_RETRY_MAX_ATTEMPTS", "0"},
		{"bad base url", "PUZZLEGEN_LLM_OPENAI_BASE_URL", "not a url"},
		{"bad redis url", "PUZZLEGEN_REDIS_URL", "localhost"},
		{"zero timeout", "PUZZLEGEN_LLM_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")

			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}
