package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mailspider/mailspider/internal/model"
)

// BatchProcessor runs the pipeline for several seed URLs concurrently
// while respecting a concurrency limit. Each seed gets a fresh pipeline
// from the factory, so no crawl state leaks between seeds.
type BatchProcessor struct {
	pipelineFactory func(seed string) *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the number of seeds crawled simultaneously.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The factory is called once
// per seed; it receives the seed so per-domain configuration can be
// applied when building the pipeline.
func NewBatchProcessor(factory func(seed string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: factory,
		concurrency:     1,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Process crawls all seeds and invokes the callback with each finished
// report and the seed's index. Failed seeds (unparseable URLs) are
// logged and skipped; the first such error is returned after every seed
// had its turn, so one bad seed never stops the rest of the batch.
func (bp *BatchProcessor) Process(ctx context.Context, seeds []string, callback func(report *model.RunReport, index int)) error {
	bp.logger.Info("starting batch",
		"seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	var (
		mu       sync.Mutex
		firstErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			report := model.NewRunReport(seed)
			p := bp.pipelineFactory(seed)

			if err := p.Execute(gctx, report); err != nil {
				bp.logger.Warn("seed failed", "seed", seed, "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				// Returning nil keeps the other seeds running.
				return nil
			}

			if callback != nil {
				callback(report, i)
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch finished",
		"seeds", len(seeds),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err != nil {
		return err
	}
	return firstErr
}
