package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.uber.org/zap"
)

// ClientOptions tunes the shared HTTP client used by every request in a
// run.
type ClientOptions struct {
	UserAgent       string
	MaxConns        int
	MaxConnsPerHost int
	ConnectTimeout  time.Duration
	RequestTimeout  time.Duration
	IdleConnTTL     time.Duration
}

// Client wraps one pooled http.Client shared by page fetches, asset
// downloads, and the warm-up request. The cookie jar keeps session
// continuity the origin may expect after warm-up.
type Client struct {
	http      *http.Client
	userAgent string
}

// newDialer bounds TCP connection establishment separately from the
// total per-request timeout on the client.
func newDialer(opts ClientOptions) *net.Dialer {
	return &net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
}

// NewClient builds the shared client. Connections are pooled and reused
// across all products in the run.
func NewClient(opts ClientOptions) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         newDialer(opts).DialContext,
		MaxIdleConns:        opts.MaxConns,
		MaxIdleConnsPerHost: opts.MaxConnsPerHost,
		MaxConnsPerHost:     opts.MaxConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTTL,
		TLSHandshakeTimeout: opts.ConnectTimeout,
		ForceAttemptHTTP2:   true,
	}
	return &Client{
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   opts.RequestTimeout,
		},
		userAgent: opts.UserAgent,
	}, nil
}

// Get issues one GET with browser-like headers and returns the full
// body. The returned error is already classified into the taxonomy.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}
	return body, nil
}

// WarmUp issues a single GET to the origin root to seed cookies before
// the main workload. Failure is logged and never aborts the run.
func (c *Client) WarmUp(ctx context.Context, origin string, logger *zap.Logger) {
	if _, err := c.Get(ctx, origin); err != nil {
		logger.Warn("warm-up request failed", zap.String("origin", origin), zap.Error(err))
		return
	}
	logger.Debug("warm-up request completed", zap.String("origin", origin))
}
