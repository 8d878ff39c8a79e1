package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs crawl summaries in GitHub Flavored Markdown.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeResults(md, summary)
	w.writeOutputs(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + summary.SeedURL + "`"},
			{"Target Host", "`" + summary.TargetHost + "`"},
			{"Finished", summary.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
		},
	})
	md.PlainText("")
}

// writeResults writes the result counters and a health note.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, summary *Summary) {
	md.H2("Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages extracted", strconv.Itoa(summary.Pages)},
			{"URLs fetched", strconv.Itoa(summary.URLsSeen)},
			{"Failures", strconv.Itoa(summary.Failures)},
			{"Checkpoints written", strconv.Itoa(len(summary.Checkpoints))},
		},
	})
	md.PlainText("")

	switch {
	case summary.Pages == 0:
		md.Warningf("No pages were extracted. Check that the seed URL is reachable and serves HTML.")
	case summary.Failures > summary.Pages:
		md.Importantf("More URLs failed (%d) than succeeded (%d); results may be incomplete.",
			summary.Failures, summary.Pages)
	default:
		md.Note("Crawl completed normally.")
	}
	md.PlainText("")
}

// writeOutputs writes the output file locations.
func (w *MarkdownWriter) writeOutputs(md *markdown.Markdown, summary *Summary) {
	md.H2("Output Files")
	md.PlainText("")

	items := []string{
		"Dataset: `" + summary.DatasetPath + "`",
		"Spreadsheet: `" + summary.WorkbookPath + "`",
	}
	for _, path := range summary.Checkpoints {
		items = append(items, "Checkpoint: `"+path+"`")
	}
	md.BulletList(items...)
	md.PlainText("")
}
