package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Page is the content of a single fetched page.
type Page struct {
	// URL is the URL that was requested.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the value of the Content-Type response header.
	ContentType string

	// Body is the response body, capped at the fetcher's body-size limit.
	Body []byte
}

// FetchErrorKind classifies why a fetch failed. The crawl engine treats
// every kind identically (log, skip, continue), but the kinds are kept
// distinct for logging and for the seed's scheme-fallback decision.
type FetchErrorKind int

const (
	// FetchTimeout means the per-request deadline expired.
	FetchTimeout FetchErrorKind = iota + 1

	// FetchConnectionFailed means the connection could not be established
	// or was dropped (DNS failure, refused connection, reset, TLS error).
	FetchConnectionFailed

	// FetchHTTPError means the server answered with a 4xx or 5xx status.
	FetchHTTPError

	// FetchTooLarge means the response body exceeded the size limit.
	FetchTooLarge
)

// String returns a short name for the kind, used in log attributes.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchConnectionFailed:
		return "connection_failed"
	case FetchHTTPError:
		return "http_error"
	case FetchTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// FetchError describes a failed fetch. It is always recovered locally by
// skipping the target; it never surfaces as a run failure.
type FetchError struct {
	// Kind classifies the failure.
	Kind FetchErrorKind

	// URL is the URL whose fetch failed.
	URL string

	// StatusCode is the HTTP status for FetchHTTPError, zero otherwise.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPError {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure justifies the seed's one-shot
// http fallback: only failures to reach the server at all qualify, since
// an HTTP status proves the https endpoint exists.
func (e *FetchError) Retryable() bool {
	return e.Kind == FetchTimeout || e.Kind == FetchConnectionFailed
}

// Fetcher is the abstract capability of retrieving a page. The deadline
// for a request travels on the context; the engine derives it from the
// remaining run time so a fetch can never outlive the run's grace period.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// HTTPFetcher fetches pages over plain HTTP(S) using net/http.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the response body size in bytes. Responses larger
// than the cap fail with FetchTooLarge rather than being truncated, so a
// partial page can never contribute half an email address.
func WithMaxBodySize(size int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// NewHTTPFetcher creates an HTTPFetcher with sane defaults. The client
// carries no timeout of its own; cancellation and deadlines come from the
// per-request context supplied by the engine.
func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{},
		userAgent:   "mailspider/1.0 (+https://github.com/mailspider/mailspider)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the page at url, classifying any failure as a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchConnectionFailed, URL: url, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: classifyTransportError(err), URL: url, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Read errors are what matters

	if resp.StatusCode >= 400 {
		return nil, &FetchError{Kind: FetchHTTPError, URL: url, StatusCode: resp.StatusCode}
	}

	// Read one byte past the cap to distinguish "exactly at the limit"
	// from "over the limit".
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{Kind: classifyTransportError(err), URL: url, Err: err}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &FetchError{Kind: FetchTooLarge, URL: url}
	}

	return &Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// classifyTransportError maps a transport-level error onto a FetchErrorKind.
func classifyTransportError(err error) FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FetchTimeout
	}
	return FetchConnectionFailed
}
