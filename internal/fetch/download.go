package fetch

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/catalog"
)

// AssetDownloader downloads binary resources to local files under a
// run-wide concurrency limit. Downloads are idempotent: an existing
// non-empty file at the destination is never re-fetched.
//
// The exists-then-write sequence is not guarded against a second
// process targeting the same paths; within one run each path belongs to
// exactly one slide task.
type AssetDownloader struct {
	client  *Client
	policy  RetryPolicy
	sleeper Sleeper
	sem     *semaphore.Weighted
	metrics *Metrics
	logger  *zap.Logger
}

// NewAssetDownloader constructs a downloader gated by sem, which is
// shared across every product and slide in the run.
func NewAssetDownloader(client *Client, policy RetryPolicy, sleeper Sleeper, sem *semaphore.Weighted, metrics *Metrics, logger *zap.Logger) *AssetDownloader {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	return &AssetDownloader{
		client:  client,
		policy:  policy,
		sleeper: sleeper,
		sem:     sem,
		metrics: metrics,
		logger:  logger,
	}
}

// Download fetches url into dest. It returns Skipped without any
// network traffic when dest already holds data, and otherwise retries
// transient failures with linear backoff. A 404 is terminal for this
// one asset only.
func (d *AssetDownloader) Download(ctx context.Context, url, dest string) (catalog.SlideStatus, error) {
	if alreadyDownloaded(dest) {
		d.metrics.IncSkip()
		d.logger.Info("download skipped, file exists", zap.String("path", dest))
		return catalog.SlideSkippedExists, nil
	}

	if err := d.sem.Acquire(ctx, 1); err != nil {
		return catalog.SlideFailed, fmt.Errorf("acquire download slot: %w", err)
	}
	defer d.sem.Release(1)

	status, err := d.attempt(ctx, url, dest)
	d.metrics.IncDownload(string(status))
	return status, err
}

func (d *AssetDownloader) attempt(ctx context.Context, url, dest string) (catalog.SlideStatus, error) {
	var lastErr error
	attempts := d.policy.MaxAttempts()

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			d.metrics.IncRetry("image")
			d.sleeper.Pause(ctx, d.policy.Backoff(attempt-1))
			if ctx.Err() != nil {
				break
			}
		}

		d.metrics.IncRequest("image")
		body, err := d.client.Get(ctx, url)
		if err == nil && len(body) == 0 {
			// Some origins answer 200 with an empty payload under load.
			err = ErrTransient{Err: fmt.Errorf("empty body for %s", url)}
		}
		if err == nil {
			if werr := os.WriteFile(dest, body, 0o644); werr != nil {
				return catalog.SlideFailed, fmt.Errorf("write %s: %w", dest, werr)
			}
			return catalog.SlideDownloaded, nil
		}
		lastErr = err

		if !retryable(err) {
			if outcomeOf(err) == OutcomeNotFound {
				d.logger.Warn("image not found", zap.String("url", url))
				return catalog.SlideNotFound, err
			}
			break
		}
		d.logger.Warn("image download failed",
			zap.String("url", url),
			zap.String("path", dest),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
	}

	exhausted := ErrExhausted{URL: url, Attempts: attempts, Last: lastErr}
	d.logger.Error("image download exhausted",
		zap.String("url", url),
		zap.String("path", dest),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return catalog.SlideFailed, exhausted
}

// alreadyDownloaded reports whether dest exists with non-zero size.
func alreadyDownloaded(dest string) bool {
	info, err := os.Stat(dest)
	if err != nil {
		return false
	}
	return info.Size() > 0
}
