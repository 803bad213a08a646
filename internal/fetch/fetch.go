// Package fetch fans target URLs out over a pool of workers, performing
// one HTTP request per target through a shared engine handle.
package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/petter-holmberg/url"
)

// Job describes one request to perform.
type Job struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// Target is the URL to request.
	Target string

	// Headers contains raw request header lines.
	Headers url.Header

	// Body is the raw body payload for body-carrying methods.
	Body []byte

	// Form, when non-nil, is sent as multipart/form-data instead of Body.
	// Only meaningful for POST.
	Form url.Form
}

// Result pairs a job with its finalized response and round-trip time.
type Result struct {
	Job      Job
	Response url.Response
	Duration time.Duration
}

// Pool executes jobs concurrently over a fixed number of workers, all of
// which share one client. Each request still gets its own response
// accumulators inside the client.
type Pool struct {
	client  *url.Client
	workers int
	logger  *slog.Logger
}

// NewPool creates a pool with the given worker count. A count below one
// is raised to one. A nil logger disables logging.
func NewPool(client *url.Client, workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{client: client, workers: workers, logger: logger}
}

// Run performs all jobs and returns one result per job, in job order.
// Jobs not started before ctx is done come back with zero responses,
// consistent with the transport-failure convention.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	for i := range jobs {
		results[i].Job = jobs[i]
	}

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				if ctx.Err() != nil {
					continue
				}
				results[i] = p.perform(ctx, results[i].Job)
			}
		}()
	}

submit:
	for i := range jobs {
		select {
		case tasks <- i:
		case <-ctx.Done():
			break submit
		}
	}
	close(tasks)
	wg.Wait()

	return results
}

// perform dispatches one job to the matching verb method.
func (p *Pool) perform(ctx context.Context, job Job) Result {
	method := job.Method
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	var resp url.Response
	switch method {
	case http.MethodGet:
		resp = p.client.Get(ctx, job.Target, job.Headers)
	case http.MethodHead:
		resp = p.client.Head(ctx, job.Target, job.Headers)
	case http.MethodPost:
		if job.Form != nil {
			resp = p.client.PostForm(ctx, job.Target, job.Form, job.Headers)
		} else {
			resp = p.client.Post(ctx, job.Target, job.Body, job.Headers)
		}
	case http.MethodPut:
		resp = p.client.Put(ctx, job.Target, job.Body, job.Headers)
	case http.MethodPatch:
		resp = p.client.Patch(ctx, job.Target, job.Body, job.Headers)
	case http.MethodDelete:
		resp = p.client.Delete(ctx, job.Target, job.Body, job.Headers)
	default:
		p.logger.Warn("unsupported method", "method", method, "target", job.Target)
	}
	duration := time.Since(start)

	p.logger.Debug("fetched target",
		"method", method,
		"target", job.Target,
		"status", resp.StatusCode,
		"ok", resp.Ok(),
		"duration", duration,
	)

	return Result{Job: job, Response: resp, Duration: duration}
}
