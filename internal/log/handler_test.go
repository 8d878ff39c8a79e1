package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestTruncatingHandlerCapsLongValues verifies long string attributes are
// truncated with an ellipsis marker.
func TestTruncatingHandlerCapsLongValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewTruncatingHandler(slog.NewJSONHandler(&buf, nil), 16)
	logger := slog.New(handler)

	long := strings.Repeat("a", 100)
	logger.Info("fetched", "url", long)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	got, ok := entry["url"].(string)
	if !ok {
		t.Fatalf("expected url attribute, got %v", entry)
	}
	if got != strings.Repeat("a", 16)+Ellipsis {
		t.Errorf("expected 16 bytes plus ellipsis, got %q", got)
	}
}

// TestTruncatingHandlerLeavesShortValues verifies values under the limit
// pass through unchanged.
func TestTruncatingHandlerLeavesShortValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewTruncatingHandler(slog.NewJSONHandler(&buf, nil), 64)
	logger := slog.New(handler)

	logger.Info("fetched", "url", "https://example.com/", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if entry["url"] != "https://example.com/" {
		t.Errorf("expected untouched URL, got %v", entry["url"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("expected non-string attribute untouched, got %v", entry["status"])
	}
}

// TestTruncatingHandlerGroups verifies truncation recurses into groups.
func TestTruncatingHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewTruncatingHandler(slog.NewJSONHandler(&buf, nil), 8)
	logger := slog.New(handler)

	logger.Info("page", slog.Group("page",
		slog.String("title", strings.Repeat("x", 50)),
	))

	out := buf.String()
	if !strings.Contains(out, strings.Repeat("x", 8)+Ellipsis) {
		t.Errorf("expected grouped attribute truncated, got %s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 9)) {
		t.Errorf("expected no more than 8 bytes of the value, got %s", out)
	}
}

// TestTruncateRespectsUTF8 verifies multi-byte sequences are never split.
func TestTruncateRespectsUTF8(t *testing.T) {
	t.Parallel()

	// The snowman rune occupies 3 bytes starting at offset 4.
	s := "abcd☃efgh"

	got := truncate(s, 5)
	if got != "abcd" {
		t.Errorf("expected truncation before the multi-byte rune, got %q", got)
	}

	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected short string unchanged, got %q", got)
	}
}

// TestNewLoggerLevels verifies the verbose flag controls the log level.
func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("quiet logger drops info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("ignored")
		logger.Warn("kept")

		out := buf.String()
		if strings.Contains(out, "ignored") {
			t.Error("expected info record dropped at default level")
		}
		if !strings.Contains(out, "kept") {
			t.Error("expected warn record to pass")
		}
	})

	t.Run("verbose logger keeps debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("details")

		if !strings.Contains(buf.String(), "details") {
			t.Error("expected debug record at verbose level")
		}
	})
}

// TestNewJSONLogger verifies JSON output with truncation applied.
func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)

	logger.Warn("fetch failed", "url", "https://example.com/x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %s", buf.String())
	}
	if entry["msg"] != "fetch failed" {
		t.Errorf("expected message field, got %v", entry["msg"])
	}
}
