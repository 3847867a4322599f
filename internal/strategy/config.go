package strategy

// Config controls the completions strategies request.
type Config struct {
	// Model overrides the provider default when non-empty.
	Model string

	// MaxTokens is the budget for single-line fields and the hint.
	MaxTokens int

	// ContentMaxTokens is the budget for the JSON content payload and the
	// solution.
	ContentMaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid is the maximum number of recent answers listed in the
	// content prompt.
	MaxAvoid int
}

// DefaultConfig returns the recommended completion settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        256,
		ContentMaxTokens: 1024,
		Temperature:      0.8,
		MaxAvoid:         10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.ContentMaxTokens <= 0 {
		c.ContentMaxTokens = d.ContentMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = d.Temperature
	}
	if c.MaxAvoid <= 0 {
		c.MaxAvoid = d.MaxAvoid
	}
	return c
}
