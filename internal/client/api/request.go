package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Request describes one logical API call. The body, when present, is either
// JSON or multipart; the encoded bytes are replayed unchanged on every retry
// attempt.
type Request struct {
	// Method defaults to GET when empty.
	Method string
	// Path is resolved against the client's base URL, e.g. "/scans".
	Path  string
	Query url.Values
	// JSON, when non-nil, is marshalled as an application/json body.
	JSON any
	// Multipart, when non-nil, wins over JSON and produces a multipart
	// form body. The file contents are treated as opaque.
	Multipart *Multipart
}

// Multipart describes a file-bearing form body.
type Multipart struct {
	FileField string
	FileName  string
	File      []byte
	Fields    map[string]string
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// encodeBody renders the request body once; a nil body slice means the
// request carries none.
func (r Request) encodeBody() (body []byte, contentType string, err error) {
	switch {
	case r.Multipart != nil:
		return r.Multipart.encode()
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile(m.FileField, m.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("encode multipart file: %w", err)
	}
	if _, err := fw.Write(m.File); err != nil {
		return nil, "", fmt.Errorf("encode multipart file: %w", err)
	}
	for name, value := range m.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("encode multipart field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
