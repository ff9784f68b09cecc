// Package scheduler launches the per-product pipelines for one run and
// waits for all of them, regardless of individual failures.
package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/catalog"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/fetch"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/product"
)

// Processor runs one product's pipeline to completion.
type Processor interface {
	Process(ctx context.Context, id catalog.ProductID) product.Result
}

// WarmUpper seeds session state with one request before the workload.
type WarmUpper interface {
	WarmUp(ctx context.Context, origin string, logger *zap.Logger)
}

// Scheduler fans the identifier queue out over concurrent product
// pipelines. The image-download semaphore and HTTP pool are shared
// underneath; the scheduler itself only coordinates launch and join.
type Scheduler struct {
	origin    string
	warmUp    bool
	client    WarmUpper
	processor Processor
	logger    *zap.Logger
}

// New constructs a Scheduler.
func New(origin string, warmUp bool, client WarmUpper, processor Processor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		origin:    origin,
		warmUp:    warmUp,
		client:    client,
		processor: processor,
		logger:    logger,
	}
}

// Run processes every identifier concurrently and returns the per
// product results in input order. An empty queue is a no-op: no
// requests are issued and no directories are created.
func (s *Scheduler) Run(ctx context.Context, ids []catalog.ProductID) []product.Result {
	if len(ids) == 0 {
		s.logger.Warn("empty identifier queue, nothing to do")
		return nil
	}

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("run starting", zap.Int("products", len(ids)))

	if s.warmUp && s.client != nil {
		s.client.WarmUp(ctx, s.origin, logger)
	}

	results := make([]product.Result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id catalog.ProductID) {
			defer wg.Done()
			results[i] = s.processor.Process(ctx, id)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Outcome == fetch.OutcomeOK {
			succeeded++
		}
	}
	logger.Info("run finished",
		zap.Int("products", len(ids)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(ids)-succeeded),
	)
	return results
}
