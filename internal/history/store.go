// Package history records completed HTTP exchanges for the command-line
// tool. The history is a log of request metadata, not a response cache:
// bodies are not stored and nothing is ever replayed from it.
package history

import (
	"context"
	"time"
)

// Exchange is the recorded metadata of one completed request.
type Exchange struct {
	// ID uniquely identifies the exchange. Assigned on save if empty.
	ID string `json:"id"`

	// Method is the HTTP method used.
	Method string `json:"method"`

	// TargetURL is the URL as requested.
	TargetURL string `json:"target_url"`

	// FinalURL is the effective URL after redirects; empty on transport
	// failure.
	FinalURL string `json:"final_url"`

	// StatusCode is the response status code (0 = no response obtained).
	StatusCode int `json:"status_code"`

	// Ok records the successful-response classification at fetch time.
	Ok bool `json:"ok"`

	// Encoding is the charset derived from the response headers.
	Encoding string `json:"encoding,omitempty"`

	// Headers contains the raw response header lines.
	Headers []string `json:"headers,omitempty"`

	// BodySize is the response body length in bytes.
	BodySize int64 `json:"body_size"`

	// Duration is the round-trip time.
	Duration time.Duration `json:"duration"`

	// CreatedAt is when the exchange was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a lightweight listing row for one recorded exchange.
type Summary struct {
	ID         string
	Method     string
	TargetURL  string
	StatusCode int
	Ok         bool
	CreatedAt  time.Time
}

// Store persists exchanges.
type Store interface {
	// Save persists an exchange, assigning an ID if it has none.
	Save(ctx context.Context, ex *Exchange) error

	// LoadByID retrieves an exchange by its unique ID.
	// Returns (nil, nil) if no exchange is found.
	LoadByID(ctx context.Context, id string) (*Exchange, error)

	// List returns summaries of all recorded exchanges, newest first.
	List(ctx context.Context) ([]*Summary, error)

	// Delete removes an exchange by its ID.
	Delete(ctx context.Context, id string) error

	// Cleanup removes exchanges recorded more than maxAge ago and returns
	// the number removed.
	Cleanup(ctx context.Context, maxAge time.Duration) (int64, error)

	// Close releases the store's resources.
	Close() error
}
