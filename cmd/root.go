package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/puzzlegen/internal/config"
	"github.com/abhisek/puzzlegen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "puzzlegen",
	Short: "Generate daily quiz puzzles with an LLM",
	Long: "puzzlegen drives an LLM through the steps of a daily quiz (title, subtitle, branding, content, hint and solution)\n" +
		"and proves number sequence answers with an offline classifier.",
	SilenceUsage: true,
}

// Execute runs the CLI; ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./puzzlegen.yaml if present)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides store.path and PUZZLEGEN_DB)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from the config, then PUZZLEGEN_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}
