// Package engine implements the crawl scheduler.
//
// The engine drains the frontier in FIFO batches of up to maxWorkers URLs,
// dispatches each batch to a bounded worker pool running the
// fetch-then-extract pipeline, merges successful page records into the
// result store, feeds newly discovered links back into the frontier, and
// sleeps a fixed politeness delay between batches. One batch fully drains
// before the next is drawn.
//
// The merge path is serialized: the record append, the checkpoint
// threshold check, and the link offer happen under one mutex, so each
// checkpoint boundary triggers exactly once even though workers complete
// in arbitrary order. Per-URL failures are logged and dropped; a single
// page failure never stops the crawl.
package engine
