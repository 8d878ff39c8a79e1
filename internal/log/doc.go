// Package log provides logging for siteharvest, built on the standard
// slog package.
//
// Crawl logs carry URLs and extracted page text as attributes, and both can
// be arbitrarily long. The TruncatingHandler caps attribute value length
// before records reach the underlying handler, so a single pathological
// page cannot flood the log output.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("page fetched", "url", pageURL, "title", title)
//	slog.SetDefault(logger)
package log
