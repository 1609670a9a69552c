package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned by Normalize when the input cannot be parsed
// as an HTTP or HTTPS URL. Targets that fail normalization are dropped
// silently by the worker pool; the error is fatal only for the seed URL,
// where it surfaces as an invalid-argument error at the CLI layer.
var ErrMalformedURL = errors.New("malformed URL")

// Normalize canonicalizes a raw URL into the comparable key used by the
// frontier's visited set.
//
// The rules are:
//   - a missing scheme is inferred as "https" (HasScheme reports whether
//     the caller should arm the http fallback for the seed)
//   - scheme and host are lowercased
//   - the fragment is removed
//   - trailing slashes are stripped from the path
//
// Normalizing an already-normalized URL returns the same string.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMalformedURL
	}

	if !HasScheme(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrMalformedURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrMalformedURL, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	return u.String(), nil
}

// HasScheme reports whether the raw URL carries an explicit scheme.
// A seed without a scheme is fetched as https first, with a one-shot
// http retry on connection failure.
func HasScheme(raw string) bool {
	return strings.Contains(raw, "://")
}

// SwapToHTTP rewrites an https URL to its http equivalent. It is used for
// the scheme-fallback retry of a seed whose scheme was inferred; the input
// must already be normalized.
func SwapToHTTP(normalized string) string {
	return "http://" + strings.TrimPrefix(normalized, "https://")
}
