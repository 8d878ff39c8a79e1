package fetcher

import (
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// Fetcher performs one HTTP GET per Fetch call against a shared client.
// The client's connection pool is safe for concurrent use, so a single
// Fetcher is shared by all workers.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// headers are extra headers added to every request.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// Result is a successful fetch: the UTF-8 body plus the response facts the
// caller needs to decide whether to parse it.
type Result struct {
	// URL is the URL that was fetched.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the value of the Content-Type response header.
	ContentType string

	// Body is the response body, converted to UTF-8 and capped at the
	// configured maximum size.
	Body []byte
}

// IsHTML reports whether the response content type indicates HTML.
func (r *Result) IsHTML() bool {
	return strings.HasPrefix(r.ContentType, "text/html") ||
		strings.HasPrefix(r.ContentType, "application/xhtml+xml")
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// DefaultMaxBodySize caps response bodies at 5MB.
const DefaultMaxBodySize = 5 * 1024 * 1024

// New creates a Fetcher whose requests time out after the given duration.
// The timeout covers the whole request: connection, headers, and body.
func New(timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent:   "siteharvest/1.0",
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewWithClient creates a Fetcher using the supplied HTTP client.
// Used by tests to inject httptest clients.
func NewWithClient(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "siteharvest/1.0",
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs one GET request for the URL and returns the response body
// converted to UTF-8. Failures are returned as *FetchError with the kind
// set; the caller decides whether a failure is fatal (it never is during a
// crawl). Fetch never retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindConnectionFailure, URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Kind: KindHTTPStatus, URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, classify(rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")

	return &Result{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        toUTF8(body, contentType),
	}, nil
}

// classify maps a transport error to a FetchError kind.
// Timeouts are recognized from net.Error and context deadline expiry;
// everything else is a connection failure.
func classify(rawURL string, err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, URL: rawURL, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: KindTimeout, URL: rawURL, Err: err}
	}

	return &FetchError{Kind: KindConnectionFailure, URL: rawURL, Err: err}
}

// toUTF8 converts the body to UTF-8.
// The charset is taken from the Content-Type parameter when present,
// otherwise sniffed from the body. Conversion failures fall back to the
// raw bytes; extraction is best-effort either way.
func toUTF8(body []byte, contentType string) []byte {
	if name := charsetFromContentType(contentType); name != "" {
		if enc, err := htmlindex.Get(name); err == nil {
			if decoded, err := enc.NewDecoder().Bytes(body); err == nil {
				return decoded
			}
		}
		return body
	}

	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

// charsetFromContentType extracts the charset parameter from a
// Content-Type header value. Returns "" when absent, malformed, or
// already UTF-8.
func charsetFromContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	name := strings.ToLower(params["charset"])
	if name == "" || name == "utf-8" || name == "utf8" {
		return ""
	}
	return name
}
