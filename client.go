package url

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"sort"
	"strings"

	"golang.org/x/time/rate"
)

// Header is an ordered list of raw request header lines ("Name: value").
type Header []string

// Client is a reusable engine handle: it owns one underlying *http.Client
// and is typically created once per worker and reused across sequential
// requests. A Client is safe for concurrent use; every request gets its
// own response accumulators.
type Client struct {
	httpClient *http.Client
	opts       ClientOptions
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new Client with the given options. It fails only on
// engine initialization problems, such as an unparseable proxy URL.
func NewClient(opts ClientOptions) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify,
		},
		ForceAttemptHTTP2: true,
	}

	if opts.ProxyURL != "" {
		proxyURL, err := neturl.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("url: invalid proxy URL: %w", err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("url: invalid proxy URL %q: missing scheme or host", opts.ProxyURL)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	if opts.DisableRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	c := &Client{
		httpClient: httpClient,
		opts:       opts,
		logger:     opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), 1)
	}

	return c, nil
}

// Close releases idle engine connections held by the client. The client
// must not be used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, target string, headers Header) Response {
	return c.perform(ctx, http.MethodGet, target, nil, nil, headers)
}

// Head performs a HEAD request. The response carries headers but no body.
func (c *Client) Head(ctx context.Context, target string, headers Header) Response {
	return c.perform(ctx, http.MethodHead, target, nil, nil, headers)
}

// Post performs a POST request with a raw body payload.
func (c *Client) Post(ctx context.Context, target string, body []byte, headers Header) Response {
	return c.perform(ctx, http.MethodPost, target, body, nil, headers)
}

// PostForm performs a POST request sending the form fields as a
// multipart/form-data payload, preserving field order.
func (c *Client) PostForm(ctx context.Context, target string, form Form, headers Header) Response {
	return c.perform(ctx, http.MethodPost, target, nil, form, headers)
}

// Put performs a PUT request with a raw body payload.
func (c *Client) Put(ctx context.Context, target string, body []byte, headers Header) Response {
	return c.perform(ctx, http.MethodPut, target, body, nil, headers)
}

// Patch performs a PATCH request with a raw body payload.
func (c *Client) Patch(ctx context.Context, target string, body []byte, headers Header) Response {
	return c.perform(ctx, http.MethodPatch, target, body, nil, headers)
}

// Delete performs a DELETE request with an optional raw body payload.
func (c *Client) Delete(ctx context.Context, target string, body []byte, headers Header) Response {
	return c.perform(ctx, http.MethodDelete, target, body, nil, headers)
}

// perform drives one request through the engine and assembles the emitted
// header lines and body chunks into a Response. Any transport-level
// failure discards the accumulated state and yields the zero Response.
func (c *Client) perform(ctx context.Context, method, target string, body []byte, form Form, headers Header) Response {
	var b responseBuilder

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.DebugContext(ctx, "rate limiter interrupted", "method", method, "target", target, "error", err)
			return Response{}
		}
	}

	normalized, err := normalizeTarget(target)
	if err != nil {
		c.logger.DebugContext(ctx, "rejecting target", "method", method, "target", target, "error", err)
		return Response{}
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case form != nil:
		payload, ct, err := form.encode()
		if err != nil {
			c.logger.DebugContext(ctx, "encoding form", "target", normalized, "error", err)
			return Response{}
		}
		bodyReader = bytes.NewReader(payload)
		contentType = ct
	case len(body) > 0:
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, normalized, bodyReader)
	if err != nil {
		c.logger.DebugContext(ctx, "creating request", "method", method, "target", normalized, "error", err)
		return Response{}
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for _, line := range headers {
		name, value, ok := splitHeaderLine(line)
		if !ok {
			continue
		}
		httpReq.Header.Add(name, value)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent())
	}

	c.logger.DebugContext(ctx, "performing request", "method", method, "target", normalized)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.DebugContext(ctx, "transport failure", "method", method, "target", normalized, "error", err)
		return Response{}
	}
	defer httpResp.Body.Close()

	feedHeaderLines(&b, httpResp)

	buf := make([]byte, 32*1024)
	for {
		n, err := httpResp.Body.Read(buf)
		if n > 0 {
			b.onBodyChunk(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			// The connection dropped mid-body. Buffered data is discarded
			// rather than returned as a partial body.
			c.logger.DebugContext(ctx, "transport failure reading body", "method", method, "target", normalized, "error", err)
			b.reset()
			return Response{}
		}
	}

	effectiveURL := ""
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		effectiveURL = httpResp.Request.URL.String()
	}

	resp := b.finalize(httpResp.StatusCode, effectiveURL)
	c.logger.DebugContext(ctx, "request complete",
		"method", method,
		"status", resp.StatusCode,
		"url", resp.URL,
		"bytes", len(resp.Body),
	)
	return resp
}

// userAgent picks the User-Agent for a request without an explicit one.
func (c *Client) userAgent() string {
	if c.opts.RandomUserAgent {
		return RandomUserAgent()
	}
	if c.opts.UserAgent != "" {
		return c.opts.UserAgent
	}
	return DefaultUserAgent
}

// feedHeaderLines emits the engine's response metadata to the builder as
// raw header lines: the status line first, then one line per header field
// value. The engine hands fields over already parsed, so lines are
// re-rendered in a deterministic (sorted) field order.
func feedHeaderLines(b *responseBuilder, httpResp *http.Response) {
	b.onHeaderLine([]byte(httpResp.Proto + " " + httpResp.Status + "\r\n"))

	keys := make([]string, 0, len(httpResp.Header))
	for k := range httpResp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range httpResp.Header[k] {
			b.onHeaderLine([]byte(k + ": " + v + "\r\n"))
		}
	}
}

// splitHeaderLine parses a raw "Name: value" request header line. Lines
// without a colon are skipped.
func splitHeaderLine(line string) (name, value string, ok bool) {
	line = strings.TrimSuffix(line, "\r\n")
	name, value, ok = strings.Cut(line, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), true
}

// normalizeTarget applies a default https scheme to schemeless targets and
// re-encodes the URL. Only http and https targets are performed; anything
// else is treated as a transport failure by the caller.
func normalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("url: empty target")
	}

	u, err := neturl.Parse(target)
	if err != nil || u.Scheme == "" || u.Opaque != "" {
		// Schemeless targets like "example.com/x" or "localhost:8080/x"
		// parse without a host; retry with the default scheme.
		u, err = neturl.Parse("https://" + target)
		if err != nil {
			return "", fmt.Errorf("url: parsing target: %w", err)
		}
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url: target %q has no host", target)
	}

	return u.String(), nil
}
