package store

import (
	"context"
	"path/filepath"
	"testing"
)

// TestOpenDBCreatesDatabase verifies database creation with default options.
func TestOpenDBCreatesDatabase(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")

	db, err := OpenDB(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer db.Close()
}

// TestOpenDBMissingDatabase verifies that disabling creation fails on a
// missing database file.
func TestOpenDBMissingDatabase(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}

	if _, err := OpenDB(t.TempDir(), opts); err == nil {
		t.Error("expected error when database does not exist and creation is disabled")
	}
}

// TestRunLifecycle verifies the begin, record, finish flow.
func TestRunLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := OpenDB(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	runID, err := db.BeginRun(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to begin run: %v", err)
	}
	if runID == 0 {
		t.Error("expected non-zero run ID")
	}

	page := &PageRow{
		URL:         "https://example.com/about",
		Title:       "About",
		StatusCode:  200,
		ContentHash: "abc123",
	}
	if err := db.RecordPage(ctx, runID, page); err != nil {
		t.Fatalf("failed to record page: %v", err)
	}

	if err := db.FinishRun(ctx, runID, 1, 0); err != nil {
		t.Fatalf("failed to finish run: %v", err)
	}

	got, err := db.GetPage(ctx, runID, "https://example.com/about")
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	if got == nil {
		t.Fatal("expected recorded page, got nil")
	}
	if got.Title != "About" || got.StatusCode != 200 || got.ContentHash != "abc123" {
		t.Errorf("unexpected page row: %+v", got)
	}
	if got.FetchedAt.IsZero() {
		t.Error("expected fetched_at to be populated")
	}
}

// TestRecordPageUpsert verifies re-recording a URL updates the row instead
// of duplicating it.
func TestRecordPageUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := OpenDB(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	runID, err := db.BeginRun(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to begin run: %v", err)
	}

	page := &PageRow{URL: "https://example.com/", Title: "First", StatusCode: 200}
	if err := db.RecordPage(ctx, runID, page); err != nil {
		t.Fatalf("first record failed: %v", err)
	}

	page.Title = "Second"
	if err := db.RecordPage(ctx, runID, page); err != nil {
		t.Fatalf("second record failed: %v", err)
	}

	count, err := db.CountPages(ctx, runID)
	if err != nil {
		t.Fatalf("failed to count pages: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 page after upsert, got %d", count)
	}

	got, err := db.GetPage(ctx, runID, "https://example.com/")
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	if got.Title != "Second" {
		t.Errorf("expected updated title 'Second', got %q", got.Title)
	}
}

// TestGetPageNotRecorded verifies the nil-without-error contract.
func TestGetPageNotRecorded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := OpenDB(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	runID, err := db.BeginRun(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to begin run: %v", err)
	}

	got, err := db.GetPage(ctx, runID, "https://example.com/missing")
	if err != nil {
		t.Fatalf("expected no error for missing page, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing page, got %+v", got)
	}
}

// TestRunsAreIsolated verifies that pages belong to their run only.
func TestRunsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := OpenDB(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	first, err := db.BeginRun(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to begin first run: %v", err)
	}
	second, err := db.BeginRun(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to begin second run: %v", err)
	}

	if err := db.RecordPage(ctx, first, &PageRow{URL: "https://example.com/", StatusCode: 200}); err != nil {
		t.Fatalf("failed to record page: %v", err)
	}

	got, err := db.GetPage(ctx, second, "https://example.com/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Error("expected page recorded in first run to be absent from second run")
	}
}
