package scheduler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/catalog"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/fetch"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/product"
)

type fakeProcessor struct {
	mu      sync.Mutex
	seen    []catalog.ProductID
	failing map[catalog.ProductID]bool
}

func (p *fakeProcessor) Process(_ context.Context, id catalog.ProductID) product.Result {
	p.mu.Lock()
	p.seen = append(p.seen, id)
	p.mu.Unlock()
	if p.failing[id] {
		return product.Result{ID: id, Outcome: fetch.OutcomeExhausted}
	}
	return product.Result{ID: id, Outcome: fetch.OutcomeOK, Lines: 2}
}

func (p *fakeProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

type fakeWarmUpper struct {
	mu    sync.Mutex
	calls int
}

func (w *fakeWarmUpper) WarmUp(context.Context, string, *zap.Logger) {
	w.mu.Lock()
	w.calls++
	w.mu.Unlock()
}

func TestRunEmptyQueueIsNoOp(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{}
	warmUpper := &fakeWarmUpper{}
	s := New("https://ec.coleman.co.jp", true, warmUpper, processor, zap.NewNop())

	results := s.Run(context.Background(), nil)
	require.Nil(t, results)
	require.Zero(t, processor.count(), "no work for an empty queue")
	require.Zero(t, warmUpper.calls, "no warm-up request for an empty queue")
}

func TestRunProcessesAllConcurrently(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{}
	warmUpper := &fakeWarmUpper{}
	s := New("https://ec.coleman.co.jp", true, warmUpper, processor, zap.NewNop())

	ids := []catalog.ProductID{"111", "222", "333"}
	results := s.Run(context.Background(), ids)

	require.Len(t, results, 3)
	require.Equal(t, 3, processor.count())
	require.Equal(t, 1, warmUpper.calls)
	for i, id := range ids {
		require.Equal(t, id, results[i].ID, "results hold input order")
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{failing: map[catalog.ProductID]bool{"222": true}}
	s := New("https://ec.coleman.co.jp", false, nil, processor, zap.NewNop())

	results := s.Run(context.Background(), []catalog.ProductID{"111", "222", "333"})
	require.Len(t, results, 3)
	require.Equal(t, fetch.OutcomeOK, results[0].Outcome)
	require.Equal(t, fetch.OutcomeExhausted, results[1].Outcome)
	require.Equal(t, fetch.OutcomeOK, results[2].Outcome, "one product's failure never reaches another")
}

func TestRunSkipsWarmUpWhenDisabled(t *testing.T) {
	t.Parallel()

	warmUpper := &fakeWarmUpper{}
	s := New("https://ec.coleman.co.jp", false, warmUpper, &fakeProcessor{}, zap.NewNop())

	s.Run(context.Background(), []catalog.ProductID{"111"})
	require.Zero(t, warmUpper.calls)
}
