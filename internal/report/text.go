package report

import (
	"context"
	"fmt"
	"io"

	"github.com/petter-holmberg/url/internal/fetch"
)

// TextReporter writes the response body as-is, optionally preceded by the
// raw response header lines.
type TextReporter struct {
	// IncludeHeaders prepends the recorded header lines (status line
	// first) followed by a blank line, in the manner of curl -i.
	IncludeHeaders bool
}

// Format returns "text".
func (r *TextReporter) Format() string {
	return "text"
}

// Generate writes the result to w.
func (r *TextReporter) Generate(ctx context.Context, result *fetch.Result, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.IncludeHeaders {
		for _, line := range result.Response.Headers {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := w.Write(result.Response.Body); err != nil {
		return err
	}
	return nil
}
