package report

import "testing"

func TestNewSelectsFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", "text"},
		{"TEXT", "text"},
		{"json", "json"},
		{"Json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := New(tt.format)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.format, err)
			}
			if r.Format() != tt.want {
				t.Errorf("Format() = %q, want %q", r.Format(), tt.want)
			}
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New("xml"); err == nil {
		t.Error("New(\"xml\") should return error")
	}
}
