package gateway

import (
	"fmt"
	"io"
	"mime/multipart"
)

// formWriter is a thin wrapper over multipart.Writer that keeps field and
// file errors in one place.
type formWriter struct {
	w *multipart.Writer
}

func newFormWriter(dst io.Writer) *formWriter {
	return &formWriter{w: multipart.NewWriter(dst)}
}

func (f *formWriter) Field(name, value string) error {
	if value == "" {
		return nil
	}
	if err := f.w.WriteField(name, value); err != nil {
		return fmt.Errorf("gateway: write form field %s: %w", name, err)
	}
	return nil
}

func (f *formWriter) File(field, filename string, r io.Reader) error {
	if r == nil {
		return nil
	}
	part, err := f.w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("gateway: create form file %s: %w", field, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("gateway: write form file %s: %w", field, err)
	}
	return nil
}

func (f *formWriter) ContentType() string {
	return f.w.FormDataContentType()
}

func (f *formWriter) Close() error {
	return f.w.Close()
}
