package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Outcome tags the result of one fetch or download operation. Callers
// branch on the tag instead of unwrapping error chains.
type Outcome string

// Outcome values.
const (
	OutcomeOK        Outcome = "ok"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeTransient Outcome = "transient"
	OutcomeExhausted Outcome = "exhausted"
)

// ErrNotFound indicates the origin confirmed the resource absent (404).
// Terminal, never retried.
type ErrNotFound struct {
	URL string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("not_found: %s", e.URL)
}

// ErrBlocked indicates a response suggesting access denial (403).
// Logged distinctly but still retryable.
type ErrBlocked struct {
	URL string
}

func (e ErrBlocked) Error() string {
	return fmt.Sprintf("blocked: %s", e.URL)
}

// ErrTransient wraps a retryable failure: timeouts, other non-2xx
// statuses, transport errors, or an unexpectedly empty 200 body.
type ErrTransient struct {
	Err error
}

func (e ErrTransient) Error() string {
	return fmt.Errorf("transient: %w", e.Err).Error()
}

func (e ErrTransient) Unwrap() error {
	return e.Err
}

// ErrExhausted indicates the retry budget was consumed without success.
type ErrExhausted struct {
	URL      string
	Attempts int
	Last     error
}

func (e ErrExhausted) Error() string {
	return fmt.Sprintf("exhausted after %d attempts: %s (last: %v)", e.Attempts, e.URL, e.Last)
}

func (e ErrExhausted) Unwrap() error {
	return e.Last
}

// classifyStatus maps a response status to the error taxonomy. A nil
// return means the status is a success for the caller to consume.
func classifyStatus(statusCode int, url string) error {
	switch {
	case statusCode == http.StatusOK:
		return nil
	case statusCode == http.StatusNotFound:
		return ErrNotFound{URL: url}
	case statusCode == http.StatusForbidden:
		return ErrBlocked{URL: url}
	default:
		return ErrTransient{Err: fmt.Errorf("http status %d for %s", statusCode, url)}
	}
}

// classifyTransport maps a transport-level error into the taxonomy.
// Context cancellation passes through untagged so callers can stop.
func classifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTransient{Err: fmt.Errorf("timeout: %w", err)}
	}
	return ErrTransient{Err: err}
}

// retryable reports whether the classified error may be attempted again.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var notFound ErrNotFound
	return !errors.As(err, &notFound)
}

// outcomeOf derives the terminal Outcome tag from a classified error.
func outcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return OutcomeNotFound
	}
	var exhausted ErrExhausted
	if errors.As(err, &exhausted) {
		return OutcomeExhausted
	}
	var blocked ErrBlocked
	if errors.As(err, &blocked) {
		return OutcomeBlocked
	}
	return OutcomeTransient
}
