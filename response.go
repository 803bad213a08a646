package url

// Response represents the outcome of one HTTP exchange.
//
// A StatusCode of 0 means no response was obtained: the engine could not
// complete the exchange at all. Transport failures and HTTP error statuses
// both surface as responses that fail Ok; no distinct error value exists.
type Response struct {
	// StatusCode is the HTTP status code, or 0 if no response was obtained.
	StatusCode int

	// Headers contains the raw response header lines in receipt order,
	// starting with the status line, with one trailing CRLF stripped per
	// entry. No key/value parsing is performed.
	Headers []string

	// Body is the raw response payload. It is binary-safe.
	Body []byte

	// Encoding is the character encoding taken from the charset= parameter
	// of the first content-type header, or "" if absent or unparseable.
	Encoding string

	// URL is the effective URL after any redirects the engine followed,
	// or "" if unavailable.
	URL string
}

// Ok reports whether the response is considered successful: the status
// code lies in [100, 400). Redirect statuses count as success; transport
// failures (StatusCode 0) and 4xx/5xx statuses do not.
func (r Response) Ok() bool {
	return r.StatusCode >= 100 && r.StatusCode < 400
}

// String returns the response body as text.
func (r Response) String() string {
	return string(r.Body)
}

// AndThen returns f(r) when the response is successful, and a zero
// Response otherwise. f is not called for unsuccessful responses.
func (r Response) AndThen(f func(Response) Response) Response {
	if r.Ok() {
		return f(r)
	}
	return Response{}
}

// OrElse returns the response unchanged when it is successful, and the
// fallback f() otherwise. f is only called for unsuccessful responses.
func (r Response) OrElse(f func() Response) Response {
	if r.Ok() {
		return r
	}
	return f()
}
