package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite via modernc.org/sqlite (pure Go).
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite-backed store.
// dbPath is the path to the SQLite database file; use ":memory:" for testing.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// Verify the connection works.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping database: %w", err)
	}

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS exchanges (
			id           TEXT PRIMARY KEY,
			method       TEXT NOT NULL,
			target_url   TEXT NOT NULL,
			final_url    TEXT DEFAULT '',
			status_code  INTEGER DEFAULT 0,
			ok           INTEGER DEFAULT 0,
			encoding     TEXT DEFAULT '',
			headers_json TEXT DEFAULT '[]',
			body_size    INTEGER DEFAULT 0,
			duration_ms  INTEGER DEFAULT 0,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}

	createIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at);
	`
	if _, err := db.Exec(createIndexSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save persists an Exchange. If the exchange's ID is empty, a new UUID is
// generated and assigned; if CreatedAt is zero, the current time is used.
func (s *SQLiteStore) Save(ctx context.Context, ex *Exchange) error {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	headersJSON, err := json.Marshal(ex.Headers)
	if err != nil {
		return fmt.Errorf("history: marshal headers: %w", err)
	}

	query := `
		INSERT INTO exchanges (id, method, target_url, final_url, status_code, ok, encoding, headers_json, body_size, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			method       = excluded.method,
			target_url   = excluded.target_url,
			final_url    = excluded.final_url,
			status_code  = excluded.status_code,
			ok           = excluded.ok,
			encoding     = excluded.encoding,
			headers_json = excluded.headers_json,
			body_size    = excluded.body_size,
			duration_ms  = excluded.duration_ms
	`
	_, err = s.db.ExecContext(ctx, query,
		ex.ID,
		ex.Method,
		ex.TargetURL,
		ex.FinalURL,
		ex.StatusCode,
		boolToInt(ex.Ok),
		ex.Encoding,
		string(headersJSON),
		ex.BodySize,
		ex.Duration.Milliseconds(),
		ex.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: save exchange: %w", err)
	}

	return nil
}

// LoadByID retrieves an Exchange by its unique ID.
// Returns (nil, nil) if no exchange is found.
func (s *SQLiteStore) LoadByID(ctx context.Context, id string) (*Exchange, error) {
	query := `
		SELECT id, method, target_url, final_url, status_code, ok, encoding, headers_json, body_size, duration_ms, created_at
		FROM exchanges WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var (
		ex          Exchange
		ok          int
		headersJSON string
		durationMS  int64
		createdAt   string
	)
	err := row.Scan(&ex.ID, &ex.Method, &ex.TargetURL, &ex.FinalURL, &ex.StatusCode, &ok, &ex.Encoding, &headersJSON, &ex.BodySize, &durationMS, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("history: scan row: %w", err)
	}

	ex.Ok = ok != 0
	ex.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(headersJSON), &ex.Headers); err != nil {
		return nil, fmt.Errorf("history: unmarshal headers: %w", err)
	}
	ex.CreatedAt, err = parseStoredTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &ex, nil
}

// List returns a summary of all recorded exchanges, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*Summary, error) {
	query := `SELECT id, method, target_url, status_code, ok, created_at FROM exchanges ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("history: list exchanges: %w", err)
	}
	defer rows.Close()

	var summaries []*Summary
	for rows.Next() {
		var (
			summary   Summary
			ok        int
			createdAt string
		)
		if err := rows.Scan(&summary.ID, &summary.Method, &summary.TargetURL, &summary.StatusCode, &ok, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan summary row: %w", err)
		}
		summary.Ok = ok != 0
		summary.CreatedAt, err = parseStoredTime(createdAt)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate rows: %w", err)
	}

	return summaries, nil
}

// Delete removes an exchange by its ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM exchanges WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("history: delete exchange: %w", err)
	}
	return nil
}

// Cleanup removes exchanges whose created_at is older than maxAge from now.
// It returns the number of deleted exchanges.
func (s *SQLiteStore) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)

	query := `DELETE FROM exchanges WHERE created_at < ?`
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: cleanup exchanges: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: rows affected: %w", err)
	}

	return deleted, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseStoredTime parses RFC3339 first, falling back to the SQLite
// default format.
func parseStoredTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02 15:04:05", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("history: parse created_at %q: %w", v, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
