package service

import (
	"bytes"
	"context"
	"edu_portal/internal/util"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func rosterWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"first_name", "last_name", "email"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Ana", "Silva", "ana@school.edu"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{" Ben ", "Okafor", "ben@school.edu"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestRosterCSVFromXLSX(t *testing.T) {
	out, err := RosterCSVFromXLSX(bytes.NewReader(rosterWorkbook(t)))
	require.NoError(t, err)
	assert.Equal(t, "first_name,last_name,email\nAna,Silva,ana@school.edu\nBen,Okafor,ben@school.edu\n", string(out))
}

func TestStudentService_UploadRosterConvertsXLSX(t *testing.T) {
	var gotName, gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/students/upload-csv", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotName, gotBody = hdr.Filename, string(b)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"created_count": 1,
			"skipped":       1,
			"errors":        []map[string]string{{"row": "3", "error": "duplicate email"}},
		})
	})
	client, _ := newTestClient(t, mux)

	res, err := NewStudentService(client).UploadRoster(context.Background(), "class-5b.xlsx", bytes.NewReader(rosterWorkbook(t)))
	require.NoError(t, err)
	assert.Equal(t, "class-5b.csv", gotName)
	assert.True(t, strings.HasPrefix(gotBody, "first_name,last_name,email\n"))
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, []string{"duplicate email"}, res.Errors)
}

func TestStudentService_UploadRosterRejects(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	svc := NewStudentService(client)

	_, err := svc.UploadRoster(context.Background(), "roster.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, util.ErrUnsupportedRoster)

	_, err = svc.UploadRoster(context.Background(), "roster.csv", strings.NewReader("first_name,email\n,\n"))
	assert.ErrorIs(t, err, util.ErrEmptyRoster)

	_, err = svc.UploadRoster(context.Background(), "", strings.NewReader("x"))
	assert.True(t, util.IsValidation(err))
}

func TestStudentService_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/students", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"students": []map[string]interface{}{
				{"student_id": "s1", "first_name": "Ana", "last_name": "Silva", "progress": 0.5},
				{"id": "s2", "overall_progress": 140},
			},
		})
	})
	client, _ := newTestClient(t, mux)

	students, err := NewStudentService(client).List(context.Background(), StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ana Silva", students[0].Name)
	assert.Equal(t, 50.0, students[0].Progress)
	assert.Equal(t, "Unknown student", students[1].Name)
	assert.Equal(t, 100.0, students[1].Progress)
}
