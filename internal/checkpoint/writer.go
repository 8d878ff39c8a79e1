package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harvestly/siteharvest/internal/model"
)

// Output file names within the checkpoint directory.
const (
	// snapshotPattern names periodic checkpoints by cumulative page count.
	snapshotPattern = "crawl_batch_%d.json"

	// FinalDatasetFile is the complete dataset written at crawl end.
	FinalDatasetFile = "crawl_complete.json"

	// SummaryWorkbookFile is the flattened spreadsheet export.
	SummaryWorkbookFile = "crawl_summary.xlsx"
)

// Checkpointer writes result-set snapshots into a single output directory.
// It is safe for use from the engine's serialized merge path; it holds no
// state beyond the directory.
type Checkpointer struct {
	// dir is the output directory. Created on construction.
	dir string
}

// New creates a Checkpointer writing into dir, creating it if absent.
func New(dir string) (*Checkpointer, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Checkpointer{dir: dir}, nil
}

// Dir returns the output directory.
func (c *Checkpointer) Dir() string {
	return c.dir
}

// WriteSnapshot serializes the records to a checkpoint file named by the
// cumulative page count. The write is whole-file replace via a temporary
// file and rename, never an append.
func (c *Checkpointer) WriteSnapshot(records []*model.PageRecord, count int) (string, error) {
	path := filepath.Join(c.dir, fmt.Sprintf(snapshotPattern, count))
	if err := c.writeJSON(path, records); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFinal writes the complete dataset and the flattened spreadsheet
// export. Returns the paths of both files. A failure here is the run's
// final failure: it represents loss of the full crawl output.
func (c *Checkpointer) WriteFinal(records []*model.PageRecord) (datasetPath, workbookPath string, err error) {
	datasetPath = filepath.Join(c.dir, FinalDatasetFile)
	if err = c.writeJSON(datasetPath, records); err != nil {
		return "", "", err
	}

	workbookPath = filepath.Join(c.dir, SummaryWorkbookFile)
	if err = writeWorkbook(workbookPath, records); err != nil {
		return "", "", err
	}

	return datasetPath, workbookPath, nil
}

// writeJSON marshals v and replaces path atomically via a temporary file
// in the same directory followed by a rename.
func (c *Checkpointer) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close checkpoint: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename checkpoint: %w", err)
	}

	return nil
}
