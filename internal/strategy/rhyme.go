package strategy

import (
	"context"

	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/repair"
)

const rhymeTask = `Create a rhyme puzzle: give a rhyme word and a clue, and the answer is a different word that rhymes with the rhyme word and matches the clue.
The answer must be a single common word.`

// RhymeTime generates "find the rhyming word" puzzles.
type RhymeTime struct {
	base
}

// NewRhymeTime returns the RHYME_TIME strategy.
func NewRhymeTime(client Completer, cfg Config) *RhymeTime {
	s := &RhymeTime{base: newBase(puzzle.RhymeTime, client, cfg)}
	s.extra = func(gc puzzle.GenerationContext) []string {
		if w := gc.String(puzzle.OptRhymeWord); w != "" {
			return []string{"Rhyme word: " + w}
		}
		return nil
	}
	s.solutionTask = "In one or two sentences, explain how the answer fits the clue. Reply with the explanation only."
	return s
}

func (s *RhymeTime) GenerateContent(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	res, err := s.content(ctx, gc, rhymeTask, rhymeContract)
	if err != nil {
		return nil, err
	}
	res.SetDefault(puzzle.VarRhymeWord, repair.SeedRhymeWord)
	res.SetDefault(puzzle.VarClue, "Find a word that rhymes with "+res.Var(puzzle.VarRhymeWord)+".")
	s.applyDefaults(res, gc)
	return res, nil
}
