package fetch

import (
	"context"

	"go.uber.org/zap"
)

// PageFetcher retrieves product pages with classification-aware retry.
// A 404 is terminal and returned on the first attempt; a 403 is logged
// as a likely block but retried; everything else non-200 is transient.
type PageFetcher struct {
	client  *Client
	policy  RetryPolicy
	sleeper Sleeper
	metrics *Metrics
	logger  *zap.Logger
}

// NewPageFetcher constructs a PageFetcher around the shared client.
func NewPageFetcher(client *Client, policy RetryPolicy, sleeper Sleeper, metrics *Metrics, logger *zap.Logger) *PageFetcher {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	return &PageFetcher{
		client:  client,
		policy:  policy,
		sleeper: sleeper,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch retrieves url, retrying transient failures up to the policy's
// attempt budget with exponential backoff. The returned Outcome is the
// terminal classification; the body is only valid for OutcomeOK.
func (f *PageFetcher) Fetch(ctx context.Context, url string) ([]byte, Outcome, error) {
	var lastErr error
	attempts := f.policy.MaxAttempts()

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			f.metrics.IncRetry("page")
			f.sleeper.Pause(ctx, f.policy.Backoff(attempt-1))
			if ctx.Err() != nil {
				break
			}
		}

		f.metrics.IncRequest("page")
		body, err := f.client.Get(ctx, url)
		if err == nil {
			return body, OutcomeOK, nil
		}
		lastErr = err

		if !retryable(err) {
			if outcomeOf(err) == OutcomeNotFound {
				f.logger.Error("page not found", zap.String("url", url))
				return nil, OutcomeNotFound, err
			}
			break
		}
		if outcomeOf(err) == OutcomeBlocked {
			f.logger.Warn("page fetch likely blocked",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", attempts),
			)
			continue
		}
		f.logger.Warn("page fetch failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
	}

	exhausted := ErrExhausted{URL: url, Attempts: attempts, Last: lastErr}
	f.logger.Error("page fetch exhausted",
		zap.String("url", url),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return nil, OutcomeExhausted, exhausted
}
