package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the maximum length of a string attribute value
// before truncation. Long enough for any reasonable URL, short enough to
// keep log lines readable when page text leaks into attributes.
const DefaultMaxValueLen = 512

// Ellipsis is appended to truncated attribute values.
const Ellipsis = "..."

// TruncatingHandler wraps an slog.Handler and caps the length of string
// attribute values before passing records to the underlying handler.
// It integrates with standard slog APIs and works with any underlying
// handler (text, JSON, etc.).
type TruncatingHandler struct {
	// handler is the underlying slog handler that receives capped records.
	handler slog.Handler

	// maxValueLen is the maximum string attribute value length in bytes.
	maxValueLen int
}

// NewTruncatingHandler creates a TruncatingHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used. If
// maxValueLen is not positive, DefaultMaxValueLen is used.
func NewTruncatingHandler(handler slog.Handler, maxValueLen int) *TruncatingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxValueLen <= 0 {
		maxValueLen = DefaultMaxValueLen
	}
	return &TruncatingHandler{handler: handler, maxValueLen: maxValueLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncatingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle caps the record's attribute values and passes it on.
func (h *TruncatingHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(h.capAttr(a))
		return true
	})

	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are capped before being added.
func (h *TruncatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cappedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cappedAttrs[i] = h.capAttr(a)
	}
	return &TruncatingHandler{handler: h.handler.WithAttrs(cappedAttrs), maxValueLen: h.maxValueLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncatingHandler) WithGroup(name string) slog.Handler {
	return &TruncatingHandler{handler: h.handler.WithGroup(name), maxValueLen: h.maxValueLen}
}

// capAttr caps a single attribute, recursively handling groups.
func (h *TruncatingHandler) capAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cappedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cappedAttrs[i] = h.capAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cappedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if len(s) > h.maxValueLen {
			return slog.String(a.Key, truncate(s, h.maxValueLen)+Ellipsis)
		}
	}

	return a
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// NewLogger creates a new slog.Logger with attribute truncation and text
// output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTruncatingHandler(textHandler, DefaultMaxValueLen))
}

// NewJSONLogger creates a new slog.Logger with attribute truncation that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewTruncatingHandler(jsonHandler, DefaultMaxValueLen))
}
