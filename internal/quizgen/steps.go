package quizgen

import (
	"context"
	"errors"
	"maps"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/sequence"
	"github.com/abhisek/puzzlegen/internal/strategy"
)

// Step is a state of the generation state machine.
type Step string

const (
	StepTitle    Step = "TITLE"
	StepSubtitle Step = "SUBTITLE"
	StepBranding Step = "BRANDING"
	StepContent  Step = "CONTENT"
	StepHint     Step = "HINT"
	StepSolution Step = "SOLUTION"
	StepDone     Step = "DONE"

	// StepFailed is the terminal state of a failed generation. Failure.Step
	// names the step that led there.
	StepFailed Step = "FAILED"
)

// Steps lists the working states in execution order.
var Steps = []Step{StepTitle, StepSubtitle, StepBranding, StepContent, StepHint, StepSolution}

// MetaAnswerOverridden holds the model's answer when the classifier
// replaced it.
const MetaAnswerOverridden = "answerOverridden"

// generation is the accumulator of one GenerateCompleteQuiz call.
type generation struct {
	svc      *Service
	id       string
	req      Request
	strategy strategy.Strategy
	logger   *zap.Logger

	// gc grows with the output of each step.
	gc puzzle.GenerationContext

	title, subtitle, branding, content, hint, solution *puzzle.Result

	answer         string
	classification *sequence.Classification
	meta           map[string]string
}

func (g *generation) run(ctx context.Context) (*CompleteQuiz, error) {
	actions := map[Step]func(context.Context) error{
		StepTitle:    g.runTitle,
		StepSubtitle: g.runSubtitle,
		StepBranding: g.runBranding,
		StepContent:  g.runContent,
		StepHint:     g.runHint,
		StepSolution: g.runSolution,
	}

	for _, step := range Steps {
		if err := ctx.Err(); err != nil {
			return nil, g.fail(step, ErrIncomplete, err)
		}
		if err := g.runStep(ctx, step, actions[step]); err != nil {
			return nil, err
		}
	}

	return g.merge()
}

func (g *generation) runStep(ctx context.Context, step Step, action func(context.Context) error) error {
	ctx, span := g.svc.tracer.Start(ctx, "quizgen.step."+strings.ToLower(string(step)),
		trace.WithAttributes(attribute.String("step", string(step))))
	defer span.End()

	start := time.Now()
	err := action(ctx)
	elapsed := time.Since(start)
	g.svc.metrics.ObserveStep(strings.ToLower(string(step)), g.req.Type.Slug(), elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	g.logger.Debug("generation step finished", zap.String("step", string(step)), zap.Duration("duration", elapsed))
	return nil
}

func (g *generation) fail(step Step, kind, err error) error {
	return &Failure{Step: step, Type: g.req.Type, Kind: kind, Err: err}
}

// check turns a strategy outcome into a typed failure.
func (g *generation) check(step Step, res *puzzle.Result, err error) error {
	switch {
	case err != nil:
		return g.fail(step, ErrIncomplete, err)
	case res == nil:
		return g.fail(step, ErrIncomplete, errors.New("strategy returned no result"))
	case res.Error != "":
		return g.fail(step, ErrValidation, errors.New(res.Error))
	}
	return nil
}

func (g *generation) runTitle(ctx context.Context) error {
	res, err := g.strategy.GenerateTitle(ctx, g.gc.ForField(puzzle.FieldTitle))
	if err := g.check(StepTitle, res, err); err != nil {
		return err
	}
	g.title = res
	g.gc = g.gc.With(puzzle.OptTitle, res.Content)
	return nil
}

func (g *generation) runSubtitle(ctx context.Context) error {
	res, err := g.strategy.GenerateSubtitle(ctx, g.gc.ForField(puzzle.FieldSubtitle))
	if err := g.check(StepSubtitle, res, err); err != nil {
		return err
	}
	g.subtitle = res
	return nil
}

func (g *generation) runBranding(ctx context.Context) error {
	res, err := g.strategy.GenerateBrandingText(ctx, g.gc.ForField(puzzle.FieldBrandingText))
	if err := g.check(StepBranding, res, err); err != nil {
		return err
	}
	g.branding = res
	return nil
}

func (g *generation) runContent(ctx context.Context) error {
	gc := g.gc.ForField(puzzle.FieldContent)
	if avoid := g.svc.recentAnswers(ctx, g.logger, g.req.Type); len(avoid) > 0 {
		gc = gc.With(puzzle.OptAvoid, avoid)
	}

	res, err := g.strategy.GenerateContent(ctx, gc)
	if err := g.check(StepContent, res, err); err != nil {
		return err
	}
	if strings.TrimSpace(res.Answer) == "" {
		return g.fail(StepContent, ErrIncomplete, ErrNoContent)
	}

	g.content = res
	g.answer = strings.TrimSpace(res.Answer)
	g.gc = g.gc.
		With(puzzle.OptAnswer, g.answer).
		With(puzzle.OptContent, res.Content)

	switch g.req.Type {
	case puzzle.NumberSequence:
		if terms, err := sequence.Extract(res.Variables); err == nil {
			g.gc = g.gc.With(puzzle.OptSequence, terms)
		}
	case puzzle.RhymeTime:
		g.gc = g.gc.With(puzzle.OptRhymeWord, res.Var(puzzle.VarRhymeWord))
	case puzzle.ConceptConnection:
		if words, ok := res.Variables[puzzle.VarWords].([]string); ok {
			g.gc = g.gc.With(puzzle.OptWords, words)
		}
	}
	return nil
}

func (g *generation) runHint(ctx context.Context) error {
	res, err := g.strategy.GenerateHint(ctx, g.gc.ForField(puzzle.FieldHint))
	if err := g.check(StepHint, res, err); err != nil {
		return err
	}
	g.hint = res
	return nil
}

func (g *generation) runSolution(ctx context.Context) error {
	if g.req.Type == puzzle.NumberSequence {
		if done := g.classify(ctx); done {
			return nil
		}
	}

	res, err := g.strategy.GenerateSolution(ctx, g.gc.ForField(puzzle.FieldSolution))
	if err := g.check(StepSolution, res, err); err != nil {
		return err
	}

	if lead := g.lead(); lead != "" {
		text := lead
		if res.Content != "" {
			text += " " + res.Content
		}
		res = &puzzle.Result{Content: text, Metadata: res.Metadata, Degraded: res.Degraded}
	}
	g.solution = res
	return nil
}

// classify proves the sequence rule and, when it is verified, writes the
// solution from it. It reports whether the solution is complete; an
// unverified or failed classification leaves the solution to the strategy.
func (g *generation) classify(ctx context.Context) bool {
	terms, err := sequence.Extract(g.content.Variables)
	if err != nil {
		g.logger.Warn("sequence extraction failed", zap.Error(err))
		return false
	}
	c, err := sequence.Classify(terms)
	if err != nil {
		g.logger.Warn("sequence classification failed", zap.Error(err))
		return false
	}
	g.classification = &c
	g.svc.metrics.ObserveClassification(string(c.Kind))
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("sequence.kind", string(c.Kind)),
		attribute.Bool("sequence.verified", c.Verified),
	)
	if !c.Verified {
		return false
	}

	next := strconv.FormatInt(c.NextValue, 10)
	if next != g.answer {
		g.setMeta(MetaAnswerOverridden, g.answer)
		g.logger.Info("classifier replaced the generated answer",
			zap.String("generated", g.answer),
			zap.String("classified", next),
			zap.String("kind", string(c.Kind)),
		)
		g.answer = next
	}
	g.solution = puzzle.Text(c.Explanation)
	return true
}

// lead is the deterministic first sentence of a RHYME_TIME or
// CONCEPT_CONNECTION solution.
func (g *generation) lead() string {
	switch g.req.Type {
	case puzzle.RhymeTime:
		if w := g.content.Var(puzzle.VarRhymeWord); w != "" {
			return "The answer is \"" + g.answer + "\", which rhymes with \"" + w + "\"."
		}
	case puzzle.ConceptConnection:
		if words, ok := g.content.Variables[puzzle.VarWords].([]string); ok && len(words) > 0 {
			return "The answer is \"" + g.answer + "\": " + joinWords(words) + " are all connected to it."
		}
	}
	return ""
}

func joinWords(words []string) string {
	if len(words) == 1 {
		return words[0]
	}
	return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
}

func (g *generation) setMeta(key, value string) {
	if g.meta == nil {
		g.meta = make(map[string]string)
	}
	g.meta[key] = value
}

// merge assembles the quiz. Step outputs win over the content variables,
// and classifier fields win over both.
func (g *generation) merge() (*CompleteQuiz, error) {
	vars := maps.Clone(g.content.Variables)
	if vars == nil {
		vars = make(map[string]any)
	}

	pick := func(res *puzzle.Result, key string) string {
		if res != nil && strings.TrimSpace(res.Content) != "" {
			return strings.TrimSpace(res.Content)
		}
		s, _ := vars[key].(string)
		return strings.TrimSpace(s)
	}

	title := pick(g.title, puzzle.VarTitle)
	subtitle := pick(g.subtitle, puzzle.VarSubtitle)
	branding := pick(g.branding, puzzle.VarBrandingText)
	hint := pick(g.hint, puzzle.VarHint)
	solution := pick(g.solution, puzzle.VarSolution)

	switch {
	case title == "":
		return nil, g.fail(StepDone, ErrValidation, errors.New("title is empty"))
	case solution == "":
		return nil, g.fail(StepDone, ErrValidation, errors.New("solution is empty"))
	}

	vars[puzzle.VarTitle] = title
	vars[puzzle.VarSubtitle] = subtitle
	vars[puzzle.VarBrandingText] = branding
	vars[puzzle.VarHint] = hint
	vars[puzzle.VarSolution] = solution

	if c := g.classification; c != nil {
		vars[puzzle.VarSequence] = c.Terms
		vars[puzzle.VarPatternKind] = string(c.Kind)
		if c.Verified {
			vars[puzzle.VarFormula] = c.Formula
		}
	}

	meta := make(map[string]string)
	degraded := false
	for _, res := range []*puzzle.Result{g.title, g.subtitle, g.branding, g.content, g.hint, g.solution} {
		if res == nil {
			continue
		}
		maps.Copy(meta, res.Metadata)
		degraded = degraded || res.Degraded
	}
	maps.Copy(meta, g.meta)
	if len(meta) == 0 {
		meta = nil
	}

	return &CompleteQuiz{
		ID:             g.id,
		PuzzleType:     g.req.Type,
		Language:       g.gc.Language,
		Theme:          g.req.Theme,
		Title:          title,
		Subtitle:       subtitle,
		BrandingText:   branding,
		Content:        strings.TrimSpace(g.content.Content),
		Hint:           hint,
		Answer:         g.answer,
		Solution:       solution,
		Variables:      vars,
		Degraded:       degraded,
		Classification: g.classification,
		Metadata:       meta,
		CreatedAt:      g.svc.clock(),
	}, nil
}
