// Package report generates end-of-crawl summaries in multiple formats.
//
// The plain-text writer produces the progress-and-summary output shown on
// the terminal during and after a crawl. The Markdown writer produces a
// shareable crawl report with result tables and output file locations.
package report
