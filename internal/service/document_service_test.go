package service

import (
	"context"
	"edu_portal/internal/util"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_UploadMultipart(t *testing.T) {
	var gotFile, gotSubject, gotGrade, gotType string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/upload", func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		gotSubject = r.FormValue("subject")
		gotGrade = r.FormValue("grade_level")
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(b)
		writeJSON(w, http.StatusOK, map[string]interface{}{"document_id": "d1", "processing_status": "processing"})
	})
	client, _ := newTestClient(t, mux)

	doc, err := NewDocumentService(client, nil).Upload(context.Background(), UploadDocumentRequest{
		Filename:   "notes/fractions.pdf",
		Reader:     strings.NewReader("%PDF-1.4 fractions"),
		Subject:    "Mathematics",
		GradeLevel: 5,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotType, "multipart/form-data"))
	assert.NotContains(t, gotType, "application/json")
	assert.Equal(t, "fractions.pdf:%PDF-1.4 fractions", gotFile)
	assert.Equal(t, "Mathematics", gotSubject)
	assert.Equal(t, "5", gotGrade)

	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, "fractions.pdf", doc.Name)
	assert.Equal(t, "processing", doc.Status)
	assert.Equal(t, "Mathematics", doc.Subject)
	assert.EqualValues(t, len("%PDF-1.4 fractions"), doc.Size)
	assert.Empty(t, doc.MirrorURL)
}

func TestDocumentService_UploadMirrorsLocally(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents/upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "d2", "filename": "plan.txt"})
	})
	client, _ := newTestClient(t, mux)
	root := t.TempDir()
	storage := &StorageService{Provider: &LocalMirror{Root: root}}

	doc, err := NewDocumentService(client, storage).Upload(context.Background(), UploadDocumentRequest{
		Filename: "plan.txt", Reader: strings.NewReader("week plan"), Subject: "English", GradeLevel: 3,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(doc.MirrorURL, "/uploads/documents/"))

	saved := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(doc.MirrorURL, "/uploads/")))
	b, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "week plan", string(b))
}

func TestDocumentService_UploadValidation(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	svc := NewDocumentService(client, nil)

	tests := []struct {
		name string
		req  UploadDocumentRequest
	}{
		{"no file", UploadDocumentRequest{Subject: "Math", GradeLevel: 5}},
		{"bad extension", UploadDocumentRequest{Filename: "run.exe", Reader: strings.NewReader("x"), Subject: "Math", GradeLevel: 5}},
		{"no subject", UploadDocumentRequest{Filename: "a.pdf", Reader: strings.NewReader("x"), GradeLevel: 5}},
		{"grade out of range", UploadDocumentRequest{Filename: "a.pdf", Reader: strings.NewReader("x"), Subject: "Math"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.req)
			assert.True(t, util.IsValidation(err), "%v", err)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Science", r.URL.Query().Get("subject"))
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": "d1", "original_filename": "cells.pdf"},
			{"id": "d2"},
		})
	})
	client, _ := newTestClient(t, mux)

	docs, err := NewDocumentService(client, nil).List(context.Background(), DocumentFilter{Subject: "Science"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "cells.pdf", docs[0].Name)
	assert.Equal(t, "document", docs[1].Name)
}
