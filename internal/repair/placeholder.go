package repair

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// Seed values used whenever a payload has to be synthesized.
var (
	SeedSequence = []int64{1, 2, 3, 5, 8}
	SeedWords    = []string{"apple", "banana", "orange", "grape"}
)

const (
	SeedSequenceNext = "13"
	SeedRhymeWord    = "cat"
)

const disclaimer = "This puzzle was generated from fallback content because the generated answer could not be read. The answer shown is a placeholder."

// FillerAnswer is the placeholder answer for t.
func FillerAnswer(t puzzle.Type) string {
	switch t {
	case puzzle.Wordle:
		return "PUZZL"
	case puzzle.NumberSequence:
		return SeedSequenceNext
	case puzzle.RhymeTime:
		return "hat"
	case puzzle.ConceptConnection:
		return "fruit"
	}
	return "answer"
}

// Placeholder builds a complete, degraded result for t so the pipeline can
// continue after an unusable model answer.
func Placeholder(t puzzle.Type, theme string) *puzzle.Result {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = "Daily"
	}
	title := capitalize(theme) + " " + t.Label()

	vars := map[string]any{
		puzzle.VarTitle:        title,
		puzzle.VarSolution:     disclaimer,
		puzzle.VarSubtitle:     "A " + strings.ToLower(t.Label()) + " challenge",
		puzzle.VarHint:         "Take your time and look for the pattern.",
		puzzle.VarDescription:  "Solve today's " + strings.ToLower(t.Label()) + " about " + theme + ".",
		puzzle.VarTheme:        theme,
		puzzle.VarBrandingText: "Daily puzzle",
	}
	switch t {
	case puzzle.NumberSequence:
		vars[puzzle.VarSequence] = append([]int64(nil), SeedSequence...)
	case puzzle.RhymeTime:
		vars[puzzle.VarRhymeWord] = SeedRhymeWord
		vars[puzzle.VarClue] = "Something you wear on your head"
	case puzzle.ConceptConnection:
		vars[puzzle.VarWords] = append([]string(nil), SeedWords...)
	}

	res := &puzzle.Result{
		Content:   vars[puzzle.VarDescription].(string),
		Answer:    FillerAnswer(t),
		Variables: vars,
		Degraded:  true,
	}
	res.SetMeta(MetaDegraded, "parse_failure")
	return res
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
