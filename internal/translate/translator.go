package translate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/fetch"
)

// Translator wraps a Provider with degradation and fan-out. It never
// fails outward: a provider error substitutes the source line and is
// logged at error level.
type Translator struct {
	provider Provider
	metrics  *fetch.Metrics
	logger   *zap.Logger
}

// New builds a Translator.
func New(provider Provider, metrics *fetch.Metrics, logger *zap.Logger) *Translator {
	return &Translator{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// Translate returns the translated line, or the source line when the
// provider fails.
func (t *Translator) Translate(ctx context.Context, line string) string {
	translated, err := t.provider.Translate(ctx, line)
	if err != nil {
		t.metrics.IncTranslationFailure()
		t.logger.Error("translation degraded to source text", zap.Error(err))
		return line
	}
	return translated
}

// TranslateAll translates every line concurrently, one goroutine per
// line. The result preserves input order regardless of which call
// returns first.
func (t *Translator) TranslateAll(ctx context.Context, lines []string) []string {
	out := make([]string, len(lines))
	var wg sync.WaitGroup
	for i, line := range lines {
		wg.Add(1)
		go func(i int, line string) {
			defer wg.Done()
			out[i] = t.Translate(ctx, line)
		}(i, line)
	}
	wg.Wait()
	return out
}
