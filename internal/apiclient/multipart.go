package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

type filePart struct {
	field    string
	filename string
	reader   io.Reader
}

// Multipart 按添加顺序编码的 multipart/form-data 请求体
type Multipart struct {
	fields []formField
	files  []filePart
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name: name, value: value})
	return m
}

func (m *Multipart) File(field, filename string, r io.Reader) *Multipart {
	m.files = append(m.files, filePart{field: field, filename: filename, reader: r})
	return m
}

// encode 返回请求体和带 boundary 的 Content-Type
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range m.files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.reader); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", f.filename, err)
		}
	}
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
