package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// SimpleWriter outputs human-readable text summaries.
// Plain text with ASCII formatting works in all terminals and pipes
// cleanly to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-checkpoint file listing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the checkpoint file listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("Crawl complete!\n")
	fmt.Fprintf(&sb, "  Seed URL:    %s\n", summary.SeedURL)
	fmt.Fprintf(&sb, "  Target host: %s\n", summary.TargetHost)
	fmt.Fprintf(&sb, "  Pages:       %d\n", summary.Pages)
	fmt.Fprintf(&sb, "  Failures:    %d\n", summary.Failures)
	fmt.Fprintf(&sb, "  Duration:    %s\n", summary.Duration.Round(time.Millisecond))
	sb.WriteString("\nOutput files:\n")
	fmt.Fprintf(&sb, "  Dataset:     %s\n", summary.DatasetPath)
	fmt.Fprintf(&sb, "  Spreadsheet: %s\n", summary.WorkbookPath)

	if w.verbose && len(summary.Checkpoints) > 0 {
		sb.WriteString("\nCheckpoints:\n")
		for _, path := range summary.Checkpoints {
			fmt.Fprintf(&sb, "  %s\n", path)
		}
	}

	return io.WriteString(w.output, sb.String())
}
