// Package store provides result accumulation and persistence.
//
// ResultStore is the capability boundary for the accumulated result set:
// the engine only appends and snapshots, so the in-memory implementation
// can be replaced by a disk-backed one without touching the scheduler.
// CrawlDB is a separate SQLite-backed history of fetched pages across
// runs, recorded best-effort alongside the crawl.
package store
