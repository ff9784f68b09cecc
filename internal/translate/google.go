// Package translate provides best-effort line translation. Provider
// failures never propagate: the caller always gets a line back, falling
// back to the source text.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/fetch"
)

// Provider translates a single line of text.
type Provider interface {
	Translate(ctx context.Context, line string) (string, error)
}

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider calls the public Google translate web endpoint.
type GoogleProvider struct {
	client     *fetch.Client
	sourceLang string
	targetLang string
}

// NewGoogleProvider builds a provider translating sourceLang to
// targetLang over the shared HTTP client.
func NewGoogleProvider(client *fetch.Client, sourceLang, targetLang string) *GoogleProvider {
	return &GoogleProvider{
		client:     client,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

// Translate sends one line to the endpoint and concatenates the
// translated segments of the response.
func (g *GoogleProvider) Translate(ctx context.Context, line string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", g.sourceLang)
	query.Set("tl", g.targetLang)
	query.Set("dt", "t")
	query.Set("q", line)

	body, err := g.client.Get(ctx, googleEndpoint+"?"+query.Encode())
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}

	translated, err := parseGtxResponse(body)
	if err != nil {
		return "", err
	}
	if translated == "" {
		return "", fmt.Errorf("empty translation for %q", line)
	}
	return translated, nil
}

// parseGtxResponse digs the translated segments out of the endpoint's
// nested-array payload: [[["<dst>","<src>",...],...],...].
func parseGtxResponse(body []byte) (string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(outer) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", fmt.Errorf("decode translation segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}
	return sb.String(), nil
}
