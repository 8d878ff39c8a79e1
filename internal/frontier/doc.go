// Package frontier manages the crawl frontier: the set of discovered but
// not yet fetched URLs, plus the set of already visited URLs.
//
// The frontier owns deduplication and eligibility filtering. A URL enters
// the pending queue at most once, and once handed out by TakeBatch it is
// marked visited and can never be handed out or re-offered again, even
// under concurrent discovery from multiple workers.
package frontier
