package report

import "io"

// Writer defines the interface for summary output.
// Implementations write crawl summaries in various formats, allowing the
// same summary to go to the terminal, a file, or both.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// Useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on the first error encountered.
func (m *MultiWriter) Write(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for summary writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
