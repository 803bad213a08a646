package url

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Multipart encoding
// ---------------------------------------------------------------------------

func TestFormEncode(t *testing.T) {
	form := Form{
		{Name: "user", Value: "alice"},
		{Name: "note", Value: "hello world"},
	}

	payload, contentType, err := form.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q", contentType)
	}
	if !strings.Contains(contentType, formBoundaryPrefix) {
		t.Errorf("boundary in %q missing prefix %q", contentType, formBoundaryPrefix)
	}

	body := string(payload)
	iUser := strings.Index(body, `name="user"`)
	iNote := strings.Index(body, `name="note"`)
	if iUser < 0 || iNote < 0 {
		t.Fatalf("fields missing from payload:\n%s", body)
	}
	if iUser > iNote {
		t.Error("form fields not encoded in declaration order")
	}
}

func TestFormEncodeEmpty(t *testing.T) {
	payload, contentType, err := Form{}.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if contentType == "" || len(payload) == 0 {
		t.Error("empty form should still produce a closed multipart payload")
	}
}

func TestFormBoundariesDiffer(t *testing.T) {
	_, ct1, err1 := Form{{Name: "a", Value: "1"}}.encode()
	_, ct2, err2 := Form{{Name: "a", Value: "1"}}.encode()
	if err1 != nil || err2 != nil {
		t.Fatalf("encode: %v, %v", err1, err2)
	}
	if ct1 == ct2 {
		t.Error("two encodings reused the same boundary")
	}
}

// ---------------------------------------------------------------------------
// PostForm end to end
// ---------------------------------------------------------------------------

func TestPostFormEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("user"); got != "alice" {
			t.Errorf("user = %q, want alice", got)
		}
		if got := r.FormValue("token"); got != "s3cret" {
			t.Errorf("token = %q, want s3cret", got)
		}
		io.WriteString(w, "accepted")
	}))
	defer srv.Close()

	c := newTestClient(t)
	resp := c.PostForm(context.Background(), srv.URL, Form{
		{Name: "user", Value: "alice"},
		{Name: "token", Value: "s3cret"},
	}, nil)

	if !resp.Ok() {
		t.Fatalf("PostForm response: %+v", resp)
	}
	if resp.String() != "accepted" {
		t.Errorf("Body = %q", resp.Body)
	}
}
