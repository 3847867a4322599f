package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/puzzlegen/internal/llm"
	"github.com/abhisek/puzzlegen/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured LLM backend answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		defer logger.Sync()

		llmCfg, found := cfg.LLMSettings()
		if !found {
			return &llm.ErrConfiguration{
				Provider: llmCfg.Provider,
				Reason:   "no API key found in config or in GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY",
			}
		}
		client, err := llm.NewClientFromConfig(cmd.Context(), llmCfg, nil, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), llmCfg.Timeout)
		defer cancel()

		if !client.ValidateConnection(ctx) {
			return fmt.Errorf("%s (%s) did not answer", llmCfg.Provider, client.ModelID())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%s)\n", llmCfg.Provider, client.ModelID())
		return nil
	},
}
