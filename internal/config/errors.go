package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// These are package-level sentinel errors so callers can use errors.Is()
// for programmatic handling while keeping human-readable messages.
var (
	// ErrNoSeedURL is returned when no seed URL is provided.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a URL to start crawling from")

	// ErrInvalidSeedURL is returned when the seed URL cannot be parsed or
	// lacks an http(s) scheme or a host.
	ErrInvalidSeedURL = errors.New("invalid seed URL: must be an absolute http(s) URL")

	// ErrInvalidWorkerCount is returned when the worker count is not positive.
	// Zero workers would mean no pages are ever fetched.
	ErrInvalidWorkerCount = errors.New("invalid worker count: must be positive")

	// ErrInvalidDelay is returned when the inter-batch delay is negative.
	// Use 0 for no delay between batches.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCheckpointInterval is returned when the checkpoint interval
	// is not positive. The interval is a page count, so it must be at least 1.
	ErrInvalidCheckpointInterval = errors.New("invalid checkpoint interval: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
