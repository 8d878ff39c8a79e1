// Package fetcher performs single HTTP GET requests with a timeout and
// classifies failures into a small taxonomy (timeout, HTTP status,
// connection failure).
//
// The fetcher never retries; retry policy belongs to the caller. Response
// bodies are size-capped and converted to UTF-8 before being returned.
package fetcher
