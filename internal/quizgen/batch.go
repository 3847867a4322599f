package quizgen

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds GenerateBatch when no limit is given.
const DefaultConcurrency = 4

// BatchItem is the outcome of one request in a batch.
type BatchItem struct {
	Request Request
	Quiz    *CompleteQuiz
	Err     error
}

// GenerateBatch generates independent quizzes with at most concurrency
// running at once. Items are returned in request order. A failed request
// does not cancel the others; cancelling ctx stops all of them.
func (s *Service) GenerateBatch(ctx context.Context, reqs []Request, concurrency int) []BatchItem {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	items := make([]BatchItem, len(reqs))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			quiz, err := s.GenerateCompleteQuiz(ctx, req)
			items[i] = BatchItem{Request: req, Quiz: quiz, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	s.logger.Info("batch finished",
		zap.Int("requests", len(reqs)),
		zap.Int("failed", failed),
		zap.Int("concurrency", concurrency),
	)
	return items
}
