package fetcher

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// TestFetchSuccess verifies the happy path: headers sent, body returned.
func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	const page = "<html><head><title>Hello</title></head><body>world</body></html>"

	var gotUserAgent, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewWithClient(srv.Client(), WithUserAgent("harvest-test/1.0"))

	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}
	if string(res.Body) != page {
		t.Errorf("unexpected body: %s", res.Body)
	}
	if !res.IsHTML() {
		t.Error("expected text/html response to report IsHTML")
	}
	if gotUserAgent != "harvest-test/1.0" {
		t.Errorf("expected custom User-Agent, got %q", gotUserAgent)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("expected Accept header to prefer HTML, got %q", gotAccept)
	}
}

// TestFetchCustomHeaders verifies that extra headers reach the server.
func TestFetchCustomHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewWithClient(srv.Client(), WithHeaders(map[string]string{
		"Authorization": "Bearer token",
	}))

	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAuth != "Bearer token" {
		t.Errorf("expected Authorization header, got %q", gotAuth)
	}
}

// TestFetchHTTPStatus verifies that non-2xx responses become FetchErrors
// with the status kind and code.
func TestFetchHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"redirect loop exhausted", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			f := NewWithClient(srv.Client())

			_, err := f.Fetch(context.Background(), srv.URL)

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if fetchErr.Kind != KindHTTPStatus {
				t.Errorf("expected KindHTTPStatus, got %v", fetchErr.Kind)
			}
			if fetchErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, fetchErr.StatusCode)
			}
		})
	}
}

// TestFetchTimeout verifies that a slow server produces a timeout-kind error.
func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	f := NewWithClient(client)

	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Kind != KindTimeout {
		t.Errorf("expected KindTimeout, got %v", fetchErr.Kind)
	}
}

// TestFetchContextDeadline verifies classification of context deadline expiry.
func TestFetchContextDeadline(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewWithClient(srv.Client())

	_, err := f.Fetch(ctx, srv.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Kind != KindTimeout {
		t.Errorf("expected KindTimeout, got %v", fetchErr.Kind)
	}
}

// TestFetchConnectionFailure verifies that an unreachable server produces a
// connection-failure kind.
func TestFetchConnectionFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	client := srv.Client()
	srv.Close()

	f := NewWithClient(client)

	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.Kind != KindConnectionFailure {
		t.Errorf("expected KindConnectionFailure, got %v", fetchErr.Kind)
	}
}

// TestFetchBodySizeCap verifies that oversized bodies are truncated rather
// than rejected.
func TestFetchBodySizeCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), 4096))
	}))
	defer srv.Close()

	f := NewWithClient(srv.Client(), WithMaxBodySize(1024))

	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Body) != 1024 {
		t.Errorf("expected body capped at 1024 bytes, got %d", len(res.Body))
	}
}

// TestFetchCharsetConversion verifies that non-UTF-8 bodies are converted.
func TestFetchCharsetConversion(t *testing.T) {
	t.Parallel()

	// "café" encoded in ISO-8859-1.
	latin1, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("café"))
	if err != nil {
		t.Fatalf("failed to encode test body: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(latin1)
	}))
	defer srv.Close()

	f := NewWithClient(srv.Client())

	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(res.Body) != "café" {
		t.Errorf("expected converted UTF-8 body %q, got %q", "café", res.Body)
	}
}

// TestResultIsHTML tests content-type classification.
func TestResultIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"html", "text/html", true},
		{"html with charset", "text/html; charset=utf-8", true},
		{"xhtml", "application/xhtml+xml", true},
		{"json", "application/json", false},
		{"plain text", "text/plain", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &Result{ContentType: tt.contentType}
			if got := r.IsHTML(); got != tt.want {
				t.Errorf("IsHTML() with %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

// TestFetchErrorMessage verifies the error string includes URL and kind.
func TestFetchErrorMessage(t *testing.T) {
	t.Parallel()

	err := &FetchError{Kind: KindHTTPStatus, URL: "https://example.com/x", StatusCode: 404}
	msg := err.Error()
	if !strings.Contains(msg, "https://example.com/x") {
		t.Errorf("expected error message to contain the URL, got %q", msg)
	}
	if !strings.Contains(msg, "404") {
		t.Errorf("expected error message to contain the status code, got %q", msg)
	}
}
