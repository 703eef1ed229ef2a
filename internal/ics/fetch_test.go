package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchOne_CachesAndRevalidates(t *testing.T) {
	t.Parallel()

	body := "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "test", URL: srv.URL + "/cal.ics"}

	first, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.FromCache {
		t.Error("first fetch must hit the network")
	}
	if string(first.Body) != body {
		t.Errorf("unexpected body: %q", first.Body)
	}

	second, err := f.FetchOne(context.Background(), src)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !second.FromCache {
		t.Error("revalidated fetch should serve the cached body")
	}
	if string(second.Body) != body {
		t.Errorf("cached body mismatch: %q", second.Body)
	}
}

func TestFetchOne_EmptyURL(t *testing.T) {
	t.Parallel()

	f := NewFetcher(t.TempDir())
	if _, err := f.FetchOne(context.Background(), Source{ID: "x"}); err == nil {
		t.Fatal("expected an error for an empty URL")
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/private/cal.ics?token=abcd", "https://example.com/...(redacted)"},
		{"https://example.com", "https://example.com/...(redacted)"},
		{"garbage", "ics://...(redacted)"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
