package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/puzzlegen/internal/quizgen"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate several quizzes of one type concurrently",
	Example: `  puzzlegen batch --type rhyme-time --theme animals --theme food --concurrency 2
  puzzlegen batch --type wordle --count 5 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pt, err := typeFlag(cmd)
		if err != nil {
			return err
		}
		themes, _ := cmd.Flags().GetStringArray("theme")
		count, _ := cmd.Flags().GetInt("count")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		asJSON, _ := cmd.Flags().GetBool("json")

		if len(themes) == 0 {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			themes = make([]string, count)
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		language := languageFlag(cmd, d)
		reqs := make([]quizgen.Request, len(themes))
		for i, theme := range themes {
			reqs[i] = quizgen.Request{Type: pt, Language: language, Theme: theme}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), d.quizTimeout()*batchRounds(len(reqs), concurrency))
		defer cancel()

		items := d.service.GenerateBatch(ctx, reqs, concurrency)

		failed := 0
		for _, it := range items {
			if it.Err != nil {
				failed++
			}
		}

		if asJSON {
			if err := writeJSON(cmd.OutOrStdout(), batchOutput(items)); err != nil {
				return err
			}
		} else {
			printBatch(cmd.OutOrStdout(), items)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d quizzes failed", failed, len(items))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringP("type", "t", "", "Puzzle type: "+typeNames())
	batchCmd.Flags().StringArray("theme", nil, "Theme of one quiz; repeat for more quizzes")
	batchCmd.Flags().IntP("count", "n", 1, "Number of quizzes without a theme, used when no --theme is given")
	batchCmd.Flags().StringP("language", "l", "", "Output language (default from config)")
	batchCmd.Flags().IntP("concurrency", "c", quizgen.DefaultConcurrency, "Maximum quizzes generated at once")
	batchCmd.Flags().Bool("json", false, "Print the results as JSON")
	_ = batchCmd.MarkFlagRequired("type")
}

// batchRounds is how many sequential rounds n requests need at the given
// concurrency, at least one.
func batchRounds(n, concurrency int) time.Duration {
	if concurrency <= 0 {
		concurrency = quizgen.DefaultConcurrency
	}
	rounds := (n + concurrency - 1) / concurrency
	return time.Duration(max(rounds, 1))
}

type batchResult struct {
	Request quizgen.Request       `json:"request"`
	Quiz    *quizgen.CompleteQuiz `json:"quiz,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func batchOutput(items []quizgen.BatchItem) []batchResult {
	out := make([]batchResult, len(items))
	for i, it := range items {
		out[i] = batchResult{Request: it.Request, Quiz: it.Quiz}
		if it.Err != nil {
			out[i].Error = it.Err.Error()
		}
	}
	return out
}

func printBatch(w io.Writer, items []quizgen.BatchItem) {
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		theme := it.Request.Theme
		if theme == "" {
			theme = "(no theme)"
		}
		if it.Err != nil {
			fmt.Fprintf(w, "[%d] %s: FAILED: %v\n", i+1, theme, it.Err)
			continue
		}
		fmt.Fprintf(w, "[%d] %s\n", i+1, theme)
		printQuiz(w, it.Quiz)
	}
}
