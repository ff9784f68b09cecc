package page

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveImageURL normalizes a raw img src against the page origin.
// Protocol-relative srcs get the origin's scheme, root-relative srcs
// get the origin prepended, and absolute srcs pass through unchanged.
func ResolveImageURL(origin, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", fmt.Errorf("empty image src")
	}

	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", origin, err)
	}

	switch {
	case strings.HasPrefix(src, "//"):
		return base.Scheme + ":" + src, nil
	case strings.HasPrefix(src, "/"):
		return strings.TrimSuffix(origin, "/") + src, nil
	}

	parsed, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse image src %q: %w", src, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("unresolvable image src %q", src)
	}
	return src, nil
}
