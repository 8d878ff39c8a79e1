package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleSummary() *Summary {
	return &Summary{
		SeedURL:      "https://www.example.com",
		TargetHost:   "www.example.com",
		Pages:        120,
		Failures:     3,
		URLsSeen:     123,
		Duration:     90*time.Second + 250*time.Millisecond,
		Checkpoints:  []string{"output/crawl_batch_50.json", "output/crawl_batch_100.json"},
		DatasetPath:  "output/crawl_complete.json",
		WorkbookPath: "output/crawl_summary.xlsx",
		FinishedAt:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

// TestSimpleWriter verifies the human-readable summary contents.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("default output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(sampleSummary())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected reported byte count %d to match buffer %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"Crawl complete!",
			"https://www.example.com",
			"www.example.com",
			"120",
			"Failures:    3",
			"1m30.25s",
			"output/crawl_complete.json",
			"output/crawl_summary.xlsx",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}

		if strings.Contains(out, "crawl_batch_50.json") {
			t.Error("expected checkpoint listing to be omitted without verbose")
		}
	})

	t.Run("verbose lists checkpoints", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleSummary()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "output/crawl_batch_50.json") {
			t.Errorf("expected checkpoint listing in verbose output, got:\n%s", out)
		}
		if !strings.Contains(out, "output/crawl_batch_100.json") {
			t.Errorf("expected all checkpoints listed, got:\n%s", out)
		}
	})
}

// TestMarkdownWriter verifies the Markdown report structure.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleSummary()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Report",
		"## Results",
		"## Output Files",
		"`https://www.example.com`",
		"Pages extracted",
		"URLs fetched",
		"Failures",
		"Dataset: `output/crawl_complete.json`",
		"Checkpoint: `output/crawl_batch_50.json`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, out)
		}
	}
}

// TestMarkdownWriterHealthNotes verifies the conditional health callouts.
func TestMarkdownWriterHealthNotes(t *testing.T) {
	t.Parallel()

	t.Run("zero pages warns", func(t *testing.T) {
		t.Parallel()

		summary := sampleSummary()
		summary.Pages = 0

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "No pages were extracted") {
			t.Errorf("expected zero-page warning, got:\n%s", buf.String())
		}
	})

	t.Run("mostly failures is flagged", func(t *testing.T) {
		t.Parallel()

		summary := sampleSummary()
		summary.Pages = 2
		summary.Failures = 10

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(summary); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "results may be incomplete") {
			t.Errorf("expected failure-heavy note, got:\n%s", buf.String())
		}
	})
}

// failingWriter always errors, for MultiWriter error propagation.
type failingWriter struct{}

func (failingWriter) Write(*Summary) (int, error) {
	return 0, errors.New("sink unavailable")
}

// TestMultiWriter verifies fan-out and error propagation.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&first), NewSimpleWriter(&second))

		total, err := mw.Write(sampleSummary())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if total != first.Len()+second.Len() {
			t.Errorf("expected total %d, got %d", first.Len()+second.Len(), total)
		}
		if first.String() != second.String() {
			t.Error("expected identical output in both writers")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))

		if _, err := mw.Write(sampleSummary()); err == nil {
			t.Fatal("expected error from failing writer")
		}
		if after.Len() != 0 {
			t.Error("expected later writers to be skipped after an error")
		}
	})
}
