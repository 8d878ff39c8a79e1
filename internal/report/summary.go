package report

import "time"

// Summary holds the outcome of a completed crawl run.
// It is assembled by the engine after the frontier drains and handed to a
// Writer for output.
type Summary struct {
	// SeedURL is the URL the crawl started from.
	SeedURL string

	// TargetHost is the authority the crawl was bounded to.
	TargetHost string

	// Pages is the number of successfully extracted pages.
	Pages int

	// Failures is the number of per-URL failures (fetch or extract).
	Failures int

	// URLsSeen is the total number of unique URLs handed out for fetching.
	URLsSeen int

	// Duration is the wall-clock duration of the crawl.
	Duration time.Duration

	// Checkpoints are the paths of periodic snapshot files written
	// during the run, in the order they were written.
	Checkpoints []string

	// DatasetPath is the path of the final complete dataset.
	DatasetPath string

	// WorkbookPath is the path of the spreadsheet export.
	WorkbookPath string

	// FinishedAt is when the crawl completed.
	FinishedAt time.Time
}
