package strategy

import (
	"context"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// WordleLength is the fixed length of a Wordle answer.
const WordleLength = 5

const wordleMaxAttempts = 6

const wordleTask = `Create a Wordle puzzle: a common 5-letter word that fits the theme and that players guess in six tries.
The answer must be exactly 5 letters, with no spaces, digits or punctuation.`

// Wordle generates five-letter word guessing puzzles.
type Wordle struct {
	base
}

// NewWordle returns the WORDLE strategy.
func NewWordle(client Completer, cfg Config) *Wordle {
	s := &Wordle{base: newBase(puzzle.Wordle, client, cfg)}
	s.extra = func(gc puzzle.GenerationContext) []string {
		return []string{"The answer is a 5-letter word. Do not reveal any of its letters."}
	}
	s.solutionTask = "Explain in two sentences how the theme points to the answer word. Reply with the explanation only."
	return s
}

func (s *Wordle) GenerateContent(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	res, err := s.content(ctx, gc, wordleTask, wordleContract)
	if err != nil {
		return nil, err
	}
	res.Answer = NormalizeWordleAnswer(res.Answer)
	res.Variables[puzzle.VarWordLength] = WordleLength
	res.Variables[puzzle.VarMaxAttempts] = wordleMaxAttempts
	res.SetDefault(puzzle.VarCorrectHint, "Green means the letter is in the right spot.")
	res.SetDefault(puzzle.VarMisplacedHint, "Yellow means the letter is in the word but in another spot.")
	res.SetDefault(puzzle.VarWrongHint, "Gray means the letter is not in the word.")
	s.applyDefaults(res, gc)
	return res, nil
}

// NormalizeWordleAnswer keeps only letters, upper-cases them and truncates
// or right-pads with X to exactly five. An answer without letters becomes
// empty so the generation fails instead of guessing a word.
func NormalizeWordleAnswer(raw string) string {
	letters := lo.Filter([]rune(raw), func(r rune, _ int) bool { return unicode.IsLetter(r) })
	if len(letters) == 0 {
		return ""
	}
	word := strings.ToUpper(string(letters))
	runes := []rune(word)
	if len(runes) > WordleLength {
		runes = runes[:WordleLength]
	}
	for len(runes) < WordleLength {
		runes = append(runes, 'X')
	}
	return string(runes)
}
