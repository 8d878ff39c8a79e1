// Package extractor parses fetched HTML into page records.
//
// Extraction is a pure function of the page bytes and the source URL:
// no network access, no shared state, and the same input always yields
// the same record. Malformed markup is handled best-effort; an error is
// returned only for structurally unreadable documents.
package extractor
