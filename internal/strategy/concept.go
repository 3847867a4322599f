package strategy

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/repair"
)

// MetaWordsFallback is set when the seed words replaced the generated ones.
const MetaWordsFallback = "wordsFallback"

// ConceptWordCount is the number of clue words in a concept puzzle.
const ConceptWordCount = 4

const conceptTask = `Create a concept connection puzzle: four words that share one hidden connection, and the answer names that connection.
Each word must be different and connected to the answer.`

// ConceptConnection generates "what links these words" puzzles.
type ConceptConnection struct {
	base
}

// NewConceptConnection returns the CONCEPT_CONNECTION strategy.
func NewConceptConnection(client Completer, cfg Config) *ConceptConnection {
	s := &ConceptConnection{base: newBase(puzzle.ConceptConnection, client, cfg)}
	s.extra = func(gc puzzle.GenerationContext) []string {
		if words := gc.Strings(puzzle.OptWords); len(words) > 0 {
			return []string{"Words: " + strings.Join(words, ", ")}
		}
		return nil
	}
	s.solutionTask = "In two or three sentences, explain how each word relates to the answer. Reply with the explanation only."
	return s
}

func (s *ConceptConnection) GenerateContent(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	res, err := s.content(ctx, gc, conceptTask, conceptContract)
	if err != nil {
		return nil, err
	}
	normalizeWords(res)
	s.applyDefaults(res, gc)
	return res, nil
}

// normalizeWords keeps exactly four trimmed words or falls back to the
// seed words.
func normalizeWords(res *puzzle.Result) {
	words := conceptWords(res.Variables[puzzle.VarWords])
	if len(words) != ConceptWordCount {
		res.Variables[puzzle.VarWords] = append([]string(nil), repair.SeedWords...)
		res.SetMeta(MetaWordsFallback, "true")
		return
	}
	res.Variables[puzzle.VarWords] = words
}

func conceptWords(v any) []string {
	var raw []string
	switch x := v.(type) {
	case []string:
		raw = x
	case []any:
		raw = lo.FilterMap(x, func(e any, _ int) (string, bool) {
			s, ok := e.(string)
			return s, ok
		})
		if len(raw) != len(x) {
			return nil
		}
	case string:
		raw = strings.Split(x, ",")
	}
	words := lo.Map(raw, func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Filter(words, func(s string, _ int) bool { return s != "" })
}
