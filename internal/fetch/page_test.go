package fetch

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingSleeper records backoff delays instead of sleeping.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Pause(_ context.Context, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, delay)
}

func (s *recordingSleeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delays)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		UserAgent:       "test-agent",
		MaxConns:        8,
		MaxConnsPerHost: 4,
		ConnectTimeout:  time.Second,
		RequestTimeout:  5 * time.Second,
		IdleConnTTL:     time.Second,
	})
	require.NoError(t, err)
	httpmock.ActivateNonDefault(client.http)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func newPageFetcher(client *Client, sleeper Sleeper, attempts int) *PageFetcher {
	policy := NewExponentialRetryPolicy(attempts, time.Millisecond, 0)
	return NewPageFetcher(client, policy, sleeper, NewMetrics(), zap.NewNop())
}

func TestPageFetcherSuccess(t *testing.T) {
	client := newTestClient(t)
	const url = "https://ec.example.jp/item/111.html"
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(200, "<html>ok</html>"))

	body, outcome, err := newPageFetcher(client, &recordingSleeper{}, 3).Fetch(context.Background(), url)
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, "<html>ok</html>", string(body))
	require.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestPageFetcherNotFoundShortCircuits(t *testing.T) {
	client := newTestClient(t)
	const url = "https://ec.example.jp/item/404.html"
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(404, "gone"))

	sleeper := &recordingSleeper{}
	_, outcome, err := newPageFetcher(client, sleeper, 3).Fetch(context.Background(), url)
	require.Error(t, err)
	require.Equal(t, OutcomeNotFound, outcome)
	require.Equal(t, 1, httpmock.GetTotalCallCount(), "404 must never be retried")
	require.Zero(t, sleeper.count(), "404 must not back off")
}

func TestPageFetcherRetryCeiling(t *testing.T) {
	client := newTestClient(t)
	const url = "https://ec.example.jp/item/503.html"
	httpmock.RegisterResponder("GET", url, httpmock.NewStringResponder(503, "unavailable"))

	sleeper := &recordingSleeper{}
	_, outcome, err := newPageFetcher(client, sleeper, 3).Fetch(context.Background(), url)
	require.Error(t, err)
	require.Equal(t, OutcomeExhausted, outcome)
	require.Equal(t, 3, httpmock.GetTotalCallCount(), "attempts must equal the configured maximum")
	require.Equal(t, 2, sleeper.count(), "one backoff between each pair of attempts")
}

func TestPageFetcherForbiddenIsRetried(t *testing.T) {
	client := newTestClient(t)
	const url = "https://ec.example.jp/item/403.html"

	calls := 0
	httpmock.RegisterResponder("GET", url, func(req *http.Request) (*http.Response, error) {
		calls++
		if calls < 2 {
			return httpmock.NewStringResponse(403, "blocked"), nil
		}
		return httpmock.NewStringResponse(200, "<html>ok</html>"), nil
	})

	body, outcome, err := newPageFetcher(client, &recordingSleeper{}, 3).Fetch(context.Background(), url)
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, "<html>ok</html>", string(body))
	require.Equal(t, 2, calls)
}

func TestPageFetcherRecoversAfterTransient(t *testing.T) {
	client := newTestClient(t)
	const url = "https://ec.example.jp/item/flaky.html"

	responses := []int{500, 502, 200}
	calls := 0
	httpmock.RegisterResponder("GET", url, func(req *http.Request) (*http.Response, error) {
		status := responses[calls]
		calls++
		return httpmock.NewStringResponse(status, "body"), nil
	})

	_, outcome, err := newPageFetcher(client, &recordingSleeper{}, 3).Fetch(context.Background(), url)
	require.NoError(t, err)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, 3, calls)
}
