package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/petter-holmberg/url/internal/fetch"
)

// JSONReporter outputs structured JSON, one document per result.
type JSONReporter struct {
	// Compact outputs single-line JSON when true (no indentation).
	Compact bool
}

// Format returns "json".
func (r *JSONReporter) Format() string {
	return "json"
}

// jsonOutput is the top-level JSON structure for one result.
type jsonOutput struct {
	Method     string   `json:"method"`
	Target     string   `json:"target"`
	StatusCode int      `json:"status_code"`
	Ok         bool     `json:"ok"`
	URL        string   `json:"url,omitempty"`
	Encoding   string   `json:"encoding,omitempty"`
	Headers    []string `json:"headers,omitempty"`
	Body       string   `json:"body"`
	DurationMS float64  `json:"duration_ms"`
}

// Generate writes the result as JSON to w.
func (r *JSONReporter) Generate(ctx context.Context, result *fetch.Result, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	method := result.Job.Method
	if method == "" {
		method = "GET"
	}

	out := jsonOutput{
		Method:     method,
		Target:     result.Job.Target,
		StatusCode: result.Response.StatusCode,
		Ok:         result.Response.Ok(),
		URL:        result.Response.URL,
		Encoding:   result.Response.Encoding,
		Headers:    result.Response.Headers,
		Body:       string(result.Response.Body),
		DurationMS: float64(result.Duration.Microseconds()) / 1000,
	}

	enc := json.NewEncoder(w)
	if !r.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
