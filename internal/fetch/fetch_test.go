package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petter-holmberg/url"
)

func newTestClient(t *testing.T) *url.Client {
	t.Helper()
	c, err := url.NewClient(url.ClientOptions{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// ---------------------------------------------------------------------------
// Fan-out and result ordering
// ---------------------------------------------------------------------------

func TestRunReturnsResultsInJobOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Path)
	}))
	defer srv.Close()

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{Method: http.MethodGet, Target: fmt.Sprintf("%s/page-%d", srv.URL, i)}
	}

	pool := NewPool(newTestClient(t), 3, nil)
	results := pool.Run(context.Background(), jobs)

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		want := fmt.Sprintf("/page-%d", i)
		if res.Response.String() != want {
			t.Errorf("results[%d].Body = %q, want %q", i, res.Response.Body, want)
		}
		if res.Duration <= 0 {
			t.Errorf("results[%d].Duration = %v, want > 0", i, res.Duration)
		}
	}
}

func TestRunUsesMultipleWorkers(t *testing.T) {
	var inflight, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
	}))
	defer srv.Close()

	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = Job{Method: http.MethodGet, Target: srv.URL}
	}

	pool := NewPool(newTestClient(t), 3, nil)
	pool.Run(context.Background(), jobs)

	if peak.Load() < 2 {
		t.Errorf("peak concurrent requests = %d, want >= 2", peak.Load())
	}
}

// ---------------------------------------------------------------------------
// Method dispatch
// ---------------------------------------------------------------------------

func TestMethodDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s:%s", r.Method, body)
	}))
	defer srv.Close()

	pool := NewPool(newTestClient(t), 1, nil)

	tests := []struct {
		job  Job
		want string
	}{
		{Job{Method: http.MethodGet, Target: srv.URL}, "GET:"},
		{Job{Target: srv.URL}, "GET:"}, // empty method defaults to GET
		{Job{Method: http.MethodPost, Target: srv.URL, Body: []byte("x")}, "POST:x"},
		{Job{Method: http.MethodPut, Target: srv.URL, Body: []byte("y")}, "PUT:y"},
		{Job{Method: http.MethodPatch, Target: srv.URL, Body: []byte("z")}, "PATCH:z"},
		{Job{Method: http.MethodDelete, Target: srv.URL}, "DELETE:"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			results := pool.Run(context.Background(), []Job{tt.job})
			if got := results[0].Response.String(); got != tt.want {
				t.Errorf("Body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostFormDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		fmt.Fprint(w, r.FormValue("k"))
	}))
	defer srv.Close()

	pool := NewPool(newTestClient(t), 1, nil)
	results := pool.Run(context.Background(), []Job{{
		Method: http.MethodPost,
		Target: srv.URL,
		Form:   url.Form{{Name: "k", Value: "v"}},
	}})

	if got := results[0].Response.String(); got != "v" {
		t.Errorf("form value = %q, want %q", got, "v")
	}
}

func TestUnsupportedMethodYieldsZeroResponse(t *testing.T) {
	pool := NewPool(newTestClient(t), 1, nil)
	results := pool.Run(context.Background(), []Job{{Method: "BREW", Target: "http://127.0.0.1:1"}})
	if results[0].Response.StatusCode != 0 {
		t.Errorf("Response = %+v, want zero", results[0].Response)
	}
}

// ---------------------------------------------------------------------------
// Cancellation
// ---------------------------------------------------------------------------

func TestCanceledContextLeavesZeroResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "should not matter")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{
		{Method: http.MethodGet, Target: srv.URL},
		{Method: http.MethodGet, Target: srv.URL},
	}
	pool := NewPool(newTestClient(t), 2, nil)
	results := pool.Run(ctx, jobs)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, res := range results {
		if res.Response.StatusCode != 0 {
			t.Errorf("results[%d] fetched despite canceled context: %+v", i, res.Response)
		}
		if res.Job.Target != srv.URL {
			t.Errorf("results[%d].Job not preserved", i)
		}
	}
}

func TestNewPoolClampsWorkerCount(t *testing.T) {
	pool := NewPool(newTestClient(t), 0, nil)
	if pool.workers != 1 {
		t.Errorf("workers = %d, want 1", pool.workers)
	}
}
