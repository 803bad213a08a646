package url

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"github.com/dchest/uniuri"
)

// Field is one name/value pair of a form.
type Field struct {
	Name  string
	Value string
}

// Form is an ordered list of form fields, sent by PostForm as a
// multipart/form-data payload in field order.
type Form []Field

// encode renders the form as a multipart/form-data payload and returns it
// together with the Content-Type value carrying the boundary.
func (f Form) encode() ([]byte, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.SetBoundary(formBoundaryPrefix + uniuri.NewLen(32)); err != nil {
		return nil, "", fmt.Errorf("url: setting form boundary: %w", err)
	}
	for _, field := range f {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("url: writing form field %q: %w", field.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("url: closing form payload: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// formBoundaryPrefix makes the generated boundary recognizable in captures.
const formBoundaryPrefix = "url-form-"
