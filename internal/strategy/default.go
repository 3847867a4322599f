package strategy

import (
	"context"

	"github.com/abhisek/puzzlegen/internal/puzzle"
)

const defaultTask = `Create a short puzzle that fits the theme, with one clear answer.`

// Default serves puzzle types without a dedicated strategy.
type Default struct {
	base
}

// NewDefault returns the generic strategy.
func NewDefault(client Completer, cfg Config) *Default {
	return &Default{base: newBase("", client, cfg)}
}

func (s *Default) GenerateContent(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	res, err := s.content(ctx, gc, defaultTask, defaultContract)
	if err != nil {
		return nil, err
	}
	s.applyDefaults(res, gc)
	return res, nil
}
