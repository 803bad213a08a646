package url

import "strings"

// responseBuilder accumulates the header lines and body chunks the engine
// emits while performing one request, and finalizes them into a Response.
// Each request uses a fresh (or reset) builder; accumulated state never
// carries over into a subsequent request on the same execution context.
type responseBuilder struct {
	headers []string
	body    []byte
}

// onHeaderLine records one raw header line, stripping a single trailing
// CRLF if present. Lines are kept verbatim in arrival order; lines
// without a colon (status lines, continuations) are not special-cased.
func (b *responseBuilder) onHeaderLine(raw []byte) {
	b.headers = append(b.headers, strings.TrimSuffix(string(raw), "\r\n"))
}

// onBodyChunk appends one chunk of body bytes.
func (b *responseBuilder) onBodyChunk(p []byte) {
	b.body = append(b.body, p...)
}

// reset clears both accumulators so the builder can serve a new request.
func (b *responseBuilder) reset() {
	b.headers = nil
	b.body = nil
}

// finalize moves the accumulated state into a Response with the terminal
// status code and effective URL, deriving the character encoding from the
// first content-type header. The builder is left empty.
func (b *responseBuilder) finalize(statusCode int, effectiveURL string) Response {
	r := Response{
		StatusCode: statusCode,
		Headers:    b.headers,
		Body:       b.body,
		Encoding:   extractEncoding(b.headers),
		URL:        effectiveURL,
	}
	b.headers = nil
	b.body = nil
	return r
}

const contentTypePrefix = "content-type:"

// extractEncoding scans header lines in order for the first content-type
// header and returns the value of its charset= parameter, up to the next
// ';' or the end of the line. Only the first content-type header is
// inspected; surrounding quotes are kept verbatim.
func extractEncoding(headers []string) string {
	for _, h := range headers {
		name := strings.TrimLeft(h, " \t")
		if len(name) < len(contentTypePrefix) {
			continue
		}
		if !strings.EqualFold(name[:len(contentTypePrefix)], contentTypePrefix) {
			continue
		}

		i := strings.Index(h, "charset=")
		if i < 0 {
			return ""
		}
		value := h[i+len("charset="):]
		if j := strings.IndexByte(value, ';'); j >= 0 {
			value = value[:j]
		}
		return value
	}
	return ""
}
