package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/puzzlegen/internal/config"
	"github.com/abhisek/puzzlegen/internal/history"
	"github.com/abhisek/puzzlegen/internal/llm"
	"github.com/abhisek/puzzlegen/internal/logging"
	"github.com/abhisek/puzzlegen/internal/metrics"
	"github.com/abhisek/puzzlegen/internal/quizgen"
	"github.com/abhisek/puzzlegen/internal/store"
	"github.com/abhisek/puzzlegen/internal/strategy"
)

// processMetrics registers the collectors once per process.
var processMetrics = sync.OnceValue(func() *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
})

// deps is everything a generating command needs.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *llm.Client
	service *quizgen.Service

	closers []func() error
}

// buildDeps loads the config and wires logging, the request log, the LLM
// client, the answer history and the quiz service.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, logger: logger}

	var eventRepo store.EventRepo
	if cfg.Store.Enabled {
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.closers = append(d.closers, st.Close)
		eventRepo = st.EventRepo()
	}

	m := processMetrics()

	llmCfg, _ := cfg.LLMSettings()
	d.client, err = llm.NewClientFromConfig(ctx, llmCfg, eventRepo, logger, llm.WithRetryObserver(m))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	hist, err := openHistory(ctx, cfg)
	if err != nil {
		d.Close()
		return nil, err
	}
	if c, ok := hist.(*history.RedisStore); ok {
		d.closers = append(d.closers, c.Close)
	}

	registry := strategy.NewRegistry(d.client, cfg.StrategySettings())
	d.service = quizgen.New(registry, quizgen.Options{
		Logger:     logger,
		Metrics:    m,
		History:    hist,
		AvoidCount: cfg.Generation.AvoidCount,
	})
	return d, nil
}

func openHistory(ctx context.Context, cfg *config.Config) (history.Store, error) {
	if cfg.Redis.URL == "" {
		return history.NewMemoryStore(cfg.Generation.HistorySize), nil
	}
	rs, err := history.OpenRedis(ctx, cfg.Redis.URL, cfg.Generation.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("open answer history: %w", err)
	}
	return rs, nil
}

// quizTimeout bounds one complete generation: every step may use the
// full per-call timeout.
func (d *deps) quizTimeout() time.Duration {
	return d.cfg.LLM.Timeout * time.Duration(len(quizgen.Steps))
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() error {
	var errs []error
	for _, c := range slices.Backward(d.closers) {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = d.logger.Sync()
	return errors.Join(errs...)
}
