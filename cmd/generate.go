package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one complete quiz",
	Example: `  puzzlegen generate --type wordle --theme space
  puzzlegen generate --type number-sequence --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pt, err := typeFlag(cmd)
		if err != nil {
			return err
		}
		theme, _ := cmd.Flags().GetString("theme")
		asJSON, _ := cmd.Flags().GetBool("json")

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), d.quizTimeout())
		defer cancel()

		quiz, err := d.service.GenerateCompleteQuiz(ctx, quizgen.Request{
			Type:     pt,
			Language: languageFlag(cmd, d),
			Theme:    theme,
		})
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), quiz)
		}
		printQuiz(cmd.OutOrStdout(), quiz)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("type", "t", "", "Puzzle type: "+typeNames())
	generateCmd.Flags().String("theme", "", "Topic or seed content for the puzzle")
	generateCmd.Flags().StringP("language", "l", "", "Output language (default from config)")
	generateCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	_ = generateCmd.MarkFlagRequired("type")
}

// typeFlag parses --type. Unknown types are rejected here even though the
// strategy layer would fall back to a generic puzzle.
func typeFlag(cmd *cobra.Command) (puzzle.Type, error) {
	raw, _ := cmd.Flags().GetString("type")
	pt, err := puzzle.ParseType(raw)
	if err != nil {
		return "", fmt.Errorf("%w (want one of %s)", err, typeNames())
	}
	return pt, nil
}

func typeNames() string {
	return strings.Join(lo.Map(puzzle.Types, func(t puzzle.Type, _ int) string {
		return strings.ReplaceAll(t.Slug(), "_", "-")
	}), ", ")
}

func languageFlag(cmd *cobra.Command, d *deps) string {
	if l, _ := cmd.Flags().GetString("language"); l != "" {
		return l
	}
	return d.cfg.Generation.Language
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printQuiz(w io.Writer, q *quizgen.CompleteQuiz) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %s\n", q.ID)
	fmt.Fprintf(w, "Type:      %s\n", q.PuzzleType.Label())
	fmt.Fprintf(w, "Language:  %s\n", q.Language)
	if q.Theme != "" {
		fmt.Fprintf(w, "Theme:     %s\n", q.Theme)
	}
	if q.Degraded {
		fmt.Fprintln(w, "Degraded:  yes (placeholder content)")
	}
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, q.Title)
	fmt.Fprintln(w, q.Subtitle)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, q.Content)
	printPuzzleVars(w, q)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Hint:      %s\n", q.Hint)
	fmt.Fprintf(w, "Answer:    %s\n", q.Answer)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, q.Solution)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, q.BrandingText)
}

func printPuzzleVars(w io.Writer, q *quizgen.CompleteQuiz) {
	switch q.PuzzleType {
	case puzzle.NumberSequence:
		if c := q.Classification; c != nil {
			fmt.Fprintf(w, "Sequence:  %s, ?\n", joinInts(c.Terms))
			fmt.Fprintf(w, "Pattern:   %s\n", c.Kind)
			if c.Verified {
				fmt.Fprintf(w, "Formula:   %s\n", c.Formula)
			}
		}
	case puzzle.RhymeTime:
		if s, ok := q.Variables[puzzle.VarRhymeWord].(string); ok {
			fmt.Fprintf(w, "Rhymes with: %s\n", s)
		}
	case puzzle.ConceptConnection:
		if words, ok := q.Variables[puzzle.VarWords].([]string); ok {
			fmt.Fprintf(w, "Words:     %s\n", strings.Join(words, ", "))
		}
	}
}

func joinInts(xs []int64) string {
	return strings.Join(lo.Map(xs, func(x int64, _ int) string { return fmt.Sprint(x) }), ", ")
}
