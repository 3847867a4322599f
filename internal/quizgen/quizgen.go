// Package quizgen runs a complete quiz generation: six dependent strategy
// steps, the sequence classifier for number puzzles, and the merge of all
// outputs into one CompleteQuiz.
package quizgen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abhisek/puzzlegen/internal/history"
	"github.com/abhisek/puzzlegen/internal/llm"
	"github.com/abhisek/puzzlegen/internal/logging"
	"github.com/abhisek/puzzlegen/internal/metrics"
	"github.com/abhisek/puzzlegen/internal/puzzle"
	"github.com/abhisek/puzzlegen/internal/sequence"
	"github.com/abhisek/puzzlegen/internal/strategy"
)

// TracerName is the instrumentation name of the default tracer.
const TracerName = "puzzlegen/quizgen"

// Strategies resolves the strategy for a puzzle type.
// *strategy.Registry implements it.
type Strategies interface {
	For(t puzzle.Type) strategy.Strategy
}

// Options configures a Service. Every field is optional.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer

	// History supplies recent answers to avoid and records new ones.
	History history.Store

	// AvoidCount is how many recent answers are passed to the content
	// prompt. Default: 10.
	AvoidCount int

	// Clock stamps CompleteQuiz.CreatedAt. Default: time.Now.
	Clock func() time.Time
}

// Service generates complete quizzes. It holds no per-request state and
// is safe for concurrent use.
type Service struct {
	strategies Strategies
	logger     *zap.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	history    history.Store
	avoidCount int
	clock      func() time.Time
}

// New creates a Service over the given strategies.
func New(strategies Strategies, opts Options) *Service {
	s := &Service{
		strategies: strategies,
		logger:     logging.OrNop(opts.Logger),
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		history:    opts.History,
		avoidCount: opts.AvoidCount,
		clock:      opts.Clock,
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(TracerName)
	}
	if s.avoidCount <= 0 {
		s.avoidCount = 10
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// Request is one quiz to generate.
type Request struct {
	Type     puzzle.Type `json:"puzzleType"`
	Language string      `json:"language"`

	// Theme is a topic or seed content the puzzle should be about.
	Theme string `json:"theme"`
}

// CompleteQuiz is the merged output of a successful generation. The
// caller owns it.
type CompleteQuiz struct {
	ID             string                   `json:"id"`
	PuzzleType     puzzle.Type              `json:"puzzleType"`
	Language       string                   `json:"language"`
	Theme          string                   `json:"theme"`
	Title          string                   `json:"title"`
	Subtitle       string                   `json:"subtitle"`
	BrandingText   string                   `json:"brandingText"`
	Content        string                   `json:"content"`
	Hint           string                   `json:"hint"`
	Answer         string                   `json:"answer"`
	Solution       string                   `json:"solution"`
	Variables      map[string]any           `json:"variables"`
	Degraded       bool                     `json:"degraded"`
	Classification *sequence.Classification `json:"classification,omitempty"`
	Metadata       map[string]string        `json:"metadata,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
}

// GenerateCompleteQuiz runs TITLE, SUBTITLE, BRANDING, CONTENT, HINT and
// SOLUTION in order and merges their outputs. Any failure aborts the
// remaining steps and returns a *Failure; no partial quiz is returned.
func (s *Service) GenerateCompleteQuiz(ctx context.Context, req Request) (*CompleteQuiz, error) {
	id := uuid.NewString()
	ctx = llm.WithQuizID(ctx, id)

	ctx, span := s.tracer.Start(ctx, "quizgen.GenerateCompleteQuiz", trace.WithAttributes(
		attribute.String("quiz.id", id),
		attribute.String("puzzle.type", typeLabel(req.Type)),
		attribute.String("puzzle.language", req.Language),
	))
	defer span.End()

	logger := s.logger.With(
		zap.String("quiz_id", id),
		zap.String("puzzle_type", typeLabel(req.Type)),
	)
	start := time.Now()

	g := &generation{
		svc:      s,
		id:       id,
		req:      req,
		strategy: s.strategies.For(req.Type),
		gc:       puzzle.NewContext(req.Type, req.Language, req.Theme, puzzle.FieldTitle, nil),
		logger:   logger,
	}
	quiz, err := g.run(ctx)

	s.metrics.ObserveGeneration(req.Type.Slug(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("quiz generation failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, err
	}

	if quiz.Degraded {
		s.metrics.ObserveDegraded(req.Type.Slug())
		span.SetAttributes(attribute.Bool("quiz.degraded", true))
	}
	s.remember(ctx, logger, req.Type, quiz.Answer)

	logger.Info("quiz generated",
		zap.Duration("duration", time.Since(start)),
		zap.Bool("degraded", quiz.Degraded),
	)
	return quiz, nil
}

// recentAnswers lists answers to avoid. History errors only cost variety,
// so they are logged and ignored.
func (s *Service) recentAnswers(ctx context.Context, logger *zap.Logger, t puzzle.Type) []string {
	if s.history == nil {
		return nil
	}
	answers, err := s.history.Recent(ctx, t, s.avoidCount)
	if err != nil {
		logger.Warn("loading answer history failed", zap.Error(err))
		return nil
	}
	return answers
}

func (s *Service) remember(ctx context.Context, logger *zap.Logger, t puzzle.Type, answer string) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, t, answer); err != nil {
		logger.Warn("recording answer history failed", zap.Error(err))
	}
}
