package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/session"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_TeacherFallsBackPerWidget(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/teacher", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"average_score": 88, "total_students": 30})
	})
	mux.HandleFunc("/api/assessments/configs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": "c1", "name": "Quiz"}})
	})
	mux.HandleFunc("/api/students", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "roster service down"})
	})
	mux.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []interface{}{})
	})
	client, _ := newTestClient(t, mux)

	d, err := NewDashboardService(client, nil).Teacher(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, d.Role)
	assert.True(t, d.Demo)
	assert.Equal(t, []string{"students: roster service down"}, d.Errors)

	a, ok := d.Widgets["analytics"].(*model.AnalyticsSnapshot)
	require.True(t, ok)
	assert.Equal(t, 88.0, a.AverageScore)

	students, ok := d.Widgets["students"].([]model.StudentSummary)
	require.True(t, ok)
	assert.Equal(t, "demo-s1", students[0].ID)
}

func TestDashboardService_AuthFailureIsNotMasked(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/students/s1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/learning-paths/student/s1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []interface{}{})
	})
	client, store := newTestClient(t, mux)
	require.NoError(t, store.SetCredential(ctx, session.RoleStudent, "stu", map[string]string{"id": "s1"}))

	d, err := NewDashboardService(client, nil).Student(ctx, "s1")
	assert.Nil(t, d)
	assert.ErrorIs(t, err, apiclient.ErrAuthenticationRequired)

	_, ok, _ := store.GetCredential(ctx, session.RoleStudent)
	assert.False(t, ok)
}

func TestDashboardService_AllLive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analytics/students/s1/progress", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"completed_lessons": 3, "total_lessons": 4})
	})
	mux.HandleFunc("/api/learning-paths/student/s1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"learning_paths": []map[string]interface{}{{"id": "p1", "subject": "Math"}}})
	})
	client, _ := newTestClient(t, mux)

	d, err := NewDashboardService(client, nil).Parent(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, d.Demo)
	assert.Empty(t, d.Errors)

	p := d.Widgets["progress"].(*model.AnalyticsSnapshot)
	assert.Equal(t, 75.0, p.Progress)
	assert.Equal(t, "s1", p.SubjectID)
	paths := d.Widgets["learning_paths"].([]model.LearningPath)
	require.Len(t, paths, 1)
	assert.Equal(t, "Math learning path", paths[0].Title)
}

func TestCurrentUserID(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(session.NewMemoryStorage())

	id, err := CurrentUserID(ctx, store, session.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SetCredential(ctx, session.RoleStudent, "opaque", map[string]string{"student_id": "s7"}))
	id, err = CurrentUserID(ctx, store, session.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "s7", id)
}
