// Package strategy holds the per-puzzle-type prompt building and output
// normalization used by the quiz generation pipeline.
package strategy

import (
	"context"

	"github.com/abhisek/puzzlegen/internal/llm"
	"github.com/abhisek/puzzlegen/internal/puzzle"
)

// Strategy generates each field of one puzzle type.
type Strategy interface {
	Type() puzzle.Type
	GenerateTitle(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error)
	GenerateSubtitle(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error)
	GenerateBrandingText(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error)
	GenerateContent(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error)
	GenerateHint(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error)
	GenerateSolution(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error)
}

// Completer is the text generation call strategies depend on.
// *llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, system, user string, opts llm.CompleteOptions) (string, error)
}

// Registry maps puzzle types to strategies. It is built once at startup
// and is read-only afterwards.
type Registry struct {
	byType   map[puzzle.Type]Strategy
	fallback Strategy
}

// NewRegistry builds the registry with the four puzzle variants and the
// default strategy.
func NewRegistry(client Completer, cfg Config) *Registry {
	r := &Registry{
		byType:   make(map[puzzle.Type]Strategy),
		fallback: NewDefault(client, cfg),
	}
	for _, s := range []Strategy{
		NewWordle(client, cfg),
		NewNumberSequence(client, cfg),
		NewRhymeTime(client, cfg),
		NewConceptConnection(client, cfg),
	} {
		r.byType[s.Type()] = s
	}
	return r
}

// For returns the strategy for t, or the default strategy for types
// without a dedicated one.
func (r *Registry) For(t puzzle.Type) Strategy {
	if s, ok := r.byType[t]; ok {
		return s
	}
	return r.fallback
}

// Types lists the types with a dedicated strategy.
func (r *Registry) Types() []puzzle.Type {
	out := make([]puzzle.Type, 0, len(r.byType))
	for _, t := range puzzle.Types {
		if _, ok := r.byType[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
