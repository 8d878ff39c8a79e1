package fetcher

import "fmt"

// ErrorKind classifies a fetch failure.
type ErrorKind int

const (
	// KindConnectionFailure covers DNS errors, refused connections, and
	// any transport-level failure that is not a timeout.
	KindConnectionFailure ErrorKind = iota

	// KindTimeout indicates the request exceeded the configured timeout.
	KindTimeout

	// KindHTTPStatus indicates the server responded with a non-2xx status.
	KindHTTPStatus
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindConnectionFailure:
		return "connection_failure"
	default:
		return "unknown"
	}
}

// FetchError is the classified failure returned by Fetcher.Fetch.
// A non-2xx response is a FetchError with KindHTTPStatus, not a panic or
// a bare error: per-URL failures are expected during a crawl.
type FetchError struct {
	// Kind is the failure classification.
	Kind ErrorKind

	// URL is the URL the fetch was attempted for.
	URL string

	// StatusCode is the HTTP status code for KindHTTPStatus errors,
	// zero otherwise.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("fetch %s: timeout: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: connection failure: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
