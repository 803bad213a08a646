package url

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ---------------------------------------------------------------------------
// Package-level verb functions (shared default client)
// ---------------------------------------------------------------------------

func TestPackageLevelGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "package-level")
	}))
	defer srv.Close()

	resp := Get(srv.URL)
	if !resp.Ok() {
		t.Fatalf("Get: %+v", resp)
	}
	if resp.String() != "package-level" {
		t.Errorf("Body = %q", resp.Body)
	}
	if resp.Encoding != "utf-8" {
		t.Errorf("Encoding = %q", resp.Encoding)
	}
}

func TestPackageLevelPostWithHeaderLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Trace"); got != "abc" {
			t.Errorf("X-Trace = %q, want abc", got)
		}
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}))
	defer srv.Close()

	resp := Post(srv.URL, []byte("data"), "X-Trace: abc")
	if resp.String() != "data" {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestDefaultClientIsReused(t *testing.T) {
	if getDefaultClient() != getDefaultClient() {
		t.Error("default client not shared between calls")
	}
}

func TestSequentialDefaultClientRequestsAreIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/one" {
			w.Header().Set("X-From", "one")
			fmt.Fprint(w, "one")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	first := Get(srv.URL + "/one")
	if first.String() != "one" {
		t.Fatalf("first = %+v", first)
	}

	second := Get(srv.URL + "/two")
	if len(second.Body) != 0 {
		t.Errorf("second request carried body from first: %q", second.Body)
	}
	for _, h := range second.Headers {
		if h == "X-From: one" {
			t.Error("header leaked between sequential requests")
		}
	}
}
