package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/puzzlegen/internal/llm"
	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/repair"
)

// base implements the steps every variant shares. Variants embed it and
// supply their own content step.
type base struct {
	t      puzzle.Type
	label  string
	client Completer
	cfg    Config

	// extra adds puzzle facts to hint and solution prompts.
	extra func(gc puzzle.GenerationContext) []string

	// solutionTask is the instruction closing the solution prompt.
	solutionTask string
}

func newBase(t puzzle.Type, client Completer, cfg Config) base {
	return base{
		t:            t,
		label:        t.Label(),
		client:       client,
		cfg:          cfg.withDefaults(),
		extra:        func(puzzle.GenerationContext) []string { return nil },
		solutionTask: "Explain in two or three sentences why the answer is correct. Reply with the explanation only.",
	}
}

// Type returns the puzzle type this strategy serves.
func (b *base) Type() puzzle.Type { return b.t }

func (b *base) GenerateTitle(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	return b.line(ctx, gc, puzzle.FieldTitle, titlePrompt(gc, b.label))
}

func (b *base) GenerateSubtitle(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	return b.line(ctx, gc, puzzle.FieldSubtitle, subtitlePrompt(gc, b.label))
}

func (b *base) GenerateBrandingText(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	return b.line(ctx, gc, puzzle.FieldBrandingText, brandingPrompt(gc, b.label))
}

func (b *base) GenerateHint(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	return b.line(ctx, gc, puzzle.FieldHint, hintPrompt(gc, b.label, b.extra(gc)...))
}

func (b *base) GenerateSolution(ctx context.Context, gc puzzle.GenerationContext) (*puzzle.Result, error) {
	text, err := b.complete(ctx, gc, puzzle.FieldSolution,
		solutionPrompt(gc, b.label, b.solutionTask, b.extra(gc)...),
		llm.CompleteOptions{MaxTokens: b.cfg.ContentMaxTokens})
	if err != nil {
		return nil, err
	}
	return puzzle.Text(text), nil
}

// line generates a single line of text such as a title.
func (b *base) line(ctx context.Context, gc puzzle.GenerationContext, field puzzle.Field, prompt string) (*puzzle.Result, error) {
	text, err := b.complete(ctx, gc, field, prompt, llm.CompleteOptions{MaxTokens: b.cfg.MaxTokens})
	if err != nil {
		return nil, err
	}
	return puzzle.Text(unquote(text)), nil
}

// content requests the JSON payload and parses it, falling back to a
// placeholder when the output cannot be read.
func (b *base) content(ctx context.Context, gc puzzle.GenerationContext, task, contract string) (*puzzle.Result, error) {
	prompt := contentPrompt(gc, b.label, task, contract, b.cfg.MaxAvoid)
	raw, err := b.complete(ctx, gc, puzzle.FieldContent, prompt,
		llm.CompleteOptions{MaxTokens: b.cfg.ContentMaxTokens, JSON: true})
	if err != nil {
		return nil, err
	}
	res := repair.ParseAndRepair(raw, b.t, gc.Theme)
	res.Answer = strings.TrimSpace(res.Answer)
	return res, nil
}

func (b *base) complete(ctx context.Context, gc puzzle.GenerationContext, field puzzle.Field, prompt string, opts llm.CompleteOptions) (string, error) {
	ctx = llm.WithPurpose(ctx, b.t.Slug()+"/"+string(field))
	opts.Model = b.cfg.Model
	opts.Temperature = b.cfg.Temperature

	text, err := b.client.Complete(ctx, systemPrompt, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", field, err)
	}
	return strings.TrimSpace(text), nil
}

// applyDefaults fills the variables every puzzle type carries.
func (b *base) applyDefaults(res *puzzle.Result, gc puzzle.GenerationContext) {
	lower := strings.ToLower(b.label)
	res.SetDefault(puzzle.VarSubtitle, "A "+lower+" challenge")
	res.SetDefault(puzzle.VarBrandingText, "Daily puzzle")
	res.SetDefault(puzzle.VarTheme, themeOrGeneral(gc.Theme))
	res.SetDefault(puzzle.VarDescription, "Solve today's "+lower+".")
	res.SetDefault(puzzle.VarHint, "Take your time and look for the pattern.")
	if strings.TrimSpace(res.Content) == "" {
		res.Content = res.Var(puzzle.VarDescription)
	}
}

// unquote drops one pair of matching quotes around s.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
