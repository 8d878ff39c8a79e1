// Package main provides the entry point for the siteharvest CLI.
//
// siteharvest crawls a single website, extracts structured content from
// every page, and writes checkpointed JSON datasets plus a spreadsheet
// summary.
//
// Usage:
//
//	siteharvest crawl https://example.com
//
// See --help for all available options.
package main

// main is the entry point for siteharvest.
func main() {
	Execute()
}
