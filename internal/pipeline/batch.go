package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/proxyscope/internal/model"
)

// defaultConcurrency is the number of files processed at once when
// WithConcurrency is not given.
const defaultConcurrency = 4

// BatchProcessor handles concurrent processing of multiple CSV files.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file so that no step
	// state is shared between files.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of files processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed analyses in input order.
	// Access is synchronized via mutex.
	results []*model.Analysis
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of files processed at once.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The pipelineFactory function is called once per file.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     defaultConcurrency,
		results:         make([]*model.Analysis, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// newSourceAnalysis creates an empty analysis for a source path.
func newSourceAnalysis(source string) *model.Analysis {
	a := model.NewAnalysis(nil)
	a.Source = source
	return a
}

// ProcessBatch analyzes multiple files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Returns every analysis in input order, including those that failed; a
// failed analysis carries its error. The error return is only set when the
// batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []string) ([]*model.Analysis, error) {
	bp.logger.Info("starting batch processing",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.mu.Lock()
	bp.results = make([]*model.Analysis, len(sources))
	bp.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing source",
				"source", source,
				"index", i+1,
				"total", len(sources),
			)

			analysis := newSourceAnalysis(source)
			err := bp.pipelineFactory().Execute(ctx, analysis)

			bp.mu.Lock()
			bp.results[i] = analysis
			bp.mu.Unlock()

			if err != nil {
				// Recorded in the analysis; the other files keep going.
				bp.logger.Warn("analysis failed",
					"source", source,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("analysis completed", "source", source)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.results, err
}

// ProcessBatchWithCallback analyzes multiple files and calls a callback
// for each completed analysis. This is useful for streaming results.
//
// The callback receives the analysis and the index of the source in the
// original slice. It is called from the goroutine that completed the
// analysis, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []string,
	callback func(analysis *model.Analysis, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, source := range sources {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			analysis := newSourceAnalysis(source)
			_ = bp.pipelineFactory().Execute(ctx, analysis) //nolint:errcheck // Error is stored in analysis

			callback(analysis, i)
			return nil
		})
	}

	return g.Wait()
}
