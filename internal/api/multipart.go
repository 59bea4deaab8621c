package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// payload is an encoded request body, kept as bytes so a retry can resend it.
type payload struct {
	data        []byte
	contentType string
}

func encodeBody(body any) (*payload, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case *Multipart:
		return b.encode()
	case json.RawMessage:
		return &payload{data: b, contentType: "application/json"}, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return &payload{data: data, contentType: "application/json"}, nil
	}
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	parts []part
}

type part struct {
	name        string
	value       string
	filename    string
	contentType string
	content     io.Reader
}

// NewMultipart creates an empty form.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field adds a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// File adds a file field. The content is read once, when the request is
// encoded.
func (m *Multipart) File(name, filename, contentType string, content io.Reader) *Multipart {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	m.parts = append(m.parts, part{name: name, filename: filename, contentType: contentType, content: content})
	return m
}

func (m *Multipart) encode() (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range m.parts {
		if p.content == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, err
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(p.name), quoteEscaper.Replace(p.filename)))
		h.Set("Content-Type", p.contentType)
		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, p.content); err != nil {
			return nil, fmt.Errorf("reading %s: %w", p.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &payload{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
