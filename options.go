package url

import (
	"log/slog"
	"time"
)

// DefaultUserAgent is sent when no User-Agent header is supplied and
// random selection is disabled.
const DefaultUserAgent = "url-agent/1.0"

// ClientOptions holds configuration for creating a new Client. The zero
// value is a usable default: redirects are followed, certificates are
// verified, no proxy, no timeout, no rate ceiling.
type ClientOptions struct {
	// Timeout is the timeout for each request. Zero means no timeout.
	Timeout time.Duration

	// ProxyURL is the proxy URL (HTTP or SOCKS5). An unparseable value is
	// an initialization failure: NewClient returns an error.
	ProxyURL string

	// DisableRedirects stops the engine from following redirects. By
	// default redirects are followed and Response.URL reports the final
	// location.
	DisableRedirects bool

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// UserAgent overrides DefaultUserAgent for requests that do not carry
	// an explicit User-Agent header.
	UserAgent string

	// RandomUserAgent selects a random browser User-Agent for requests
	// that do not carry an explicit User-Agent header.
	RandomUserAgent bool

	// MaxRPS is the maximum number of requests per second performed by
	// this client (0 = unlimited).
	MaxRPS float64

	// Logger receives debug records for the request lifecycle. Nil
	// disables logging.
	Logger *slog.Logger
}
