package strategy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/repair"
	"github.com/abhisek/puzzlegen/internal/sequence"
)

// MetaSequenceFallback is set when the seed sequence replaced the
// generated one.
const MetaSequenceFallback = "sequenceFallback"

// MinSequenceTerms is the fewest terms a usable sequence has.
const MinSequenceTerms = 5

const sequenceTask = `Create a number sequence puzzle: at least 5 whole numbers that follow one clear rule, and ask for the next number.
Use a rule such as a constant difference, a constant ratio, each term being the sum of the two before, square numbers or prime numbers.
The answer must be the next number in the sequence.`

// NumberSequence generates "what comes next" number puzzles.
type NumberSequence struct {
	base
}

// NewNumberSequence returns the NUMBER_SEQUENCE strategy.
func NewNumberSequence(client Completer, cfg Config) *NumberSequence {
	s := &NumberSequence{base: newBase(puzzle.NumberSequence, client, cfg)}
	s.extra = func(gc puzzle.GenerationContext) []string {
		terms := gc.Ints(puzzle.OptSequence)
		if len(terms) == 0 {
			return nil
		}
		return []string{"Sequence: " + joinInts(terms)}
	}
	s.solutionTask = "Explain step by step the rule that produces each number and how it gives the answer. Reply with the explanation only."
	return s
}

func (s *NumberSequence) GenerateContent(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	res, err := s.content(ctx, gc, sequenceTask, sequenceContract)
	if err != nil {
		return nil, err
	}
	normalizeSequence(res)
	s.applyDefaults(res, gc)
	return res, nil
}

// normalizeSequence coerces the sequence to []int64, or replaces it with
// the seed sequence and its answer when it is unusable.
func normalizeSequence(res *puzzle.Result) {
	terms, err := sequence.Extract(res.Variables)
	if err != nil || len(terms) < MinSequenceTerms {
		res.Variables[puzzle.VarSequence] = append([]int64(nil), repair.SeedSequence...)
		res.Answer = repair.SeedSequenceNext
		res.SetMeta(MetaSequenceFallback, "true")
		return
	}
	res.Variables[puzzle.VarSequence] = terms
	res.Answer = normalizeNumber(res.Answer)
}

// normalizeNumber renders "13.0" as "13" and leaves anything else trimmed.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

func joinInts(xs []int64) string {
	return strings.Join(lo.Map(xs, func(x int64, _ int) string { return fmt.Sprint(x) }), ", ")
}
