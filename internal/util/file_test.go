package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("Unit1.PDF", AllowedDocumentExtensions))
	assert.True(t, HasExtension("notes.md", AllowedDocumentExtensions))
	assert.False(t, HasExtension("setup.exe", AllowedDocumentExtensions))
	assert.False(t, HasExtension("README", AllowedDocumentExtensions))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectContentType("a.pdf", []byte("%PDF-1.7\n")))

	// docx 是 zip 包，按扩展名识别
	zip := []byte("PK\x03\x04\x14\x00\x06\x00")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		DetectContentType("plan.docx", zip))

	assert.Equal(t, "text/markdown; charset=utf-8", DetectContentType("notes.md", []byte("# Fractions\n")))
	assert.Equal(t, MimeOctetStream, DetectContentType("blob", []byte{0x00, 0x01, 0x02}))
}
