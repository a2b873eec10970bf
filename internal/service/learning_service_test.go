package service

import (
	"context"
	"edu_portal/internal/util"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningPathService_Generate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/learning-paths/generate", func(w http.ResponseWriter, r *http.Request) {
		var body GeneratePathRequest
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "s1", body.StudentID)
		assert.Equal(t, "Mathematics", body.Subject)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"learning_path": map[string]interface{}{
				"id":      "p1",
				"subject": "Mathematics",
				"steps": []map[string]interface{}{
					{"id": "st1", "name": "Fractions", "completed": true},
					{"id": "st2"},
				},
			},
		})
	})
	client, _ := newTestClient(t, mux)

	p, err := NewLearningPathService(client).Generate(context.Background(), GeneratePathRequest{StudentID: "s1", Subject: "Mathematics"})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "s1", p.StudentID)
	assert.Equal(t, "Mathematics learning path", p.Title)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, "Fractions", p.Steps[0].Title)
	assert.Equal(t, "completed", p.Steps[0].Status)
	assert.Equal(t, "Step 2", p.Steps[1].Title)
	assert.Equal(t, "pending", p.Steps[1].Status)
	assert.Equal(t, 1, p.CurrentStep)
}

func TestLearningPathService_Validation(t *testing.T) {
	svc := NewLearningPathService(nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GeneratePathRequest{Subject: "Math"})
	assert.True(t, util.IsValidation(err))

	_, err = svc.Adapt(ctx, "p1", AdaptRequest{})
	assert.True(t, util.IsValidation(err))

	_, err = svc.ForStudent(ctx, "")
	assert.True(t, util.IsValidation(err))
}

func TestLearningPathService_ForStudent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/learning-paths/student/s1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"paths": []map[string]interface{}{{"id": "p1"}, {"id": "p2"}}},
		})
	})
	client, _ := newTestClient(t, mux)

	paths, err := NewLearningPathService(client).ForStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "p2", paths[1].ID)
}

func TestLessonService_GenerateFromStep(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/lessons/generate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.EqualValues(t, 0, body["step_index"])
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "l1", "markdown": "# Fractions"})
	})
	client, _ := newTestClient(t, mux)
	svc := NewLessonService(client)

	_, err := svc.GenerateFromStep(context.Background(), LessonRequest{LearningPathID: "p1"})
	assert.True(t, util.IsValidation(err))

	zero := 0
	l, err := svc.GenerateFromStep(context.Background(), LessonRequest{LearningPathID: "p1", StepIndex: &zero})
	require.NoError(t, err)
	assert.Equal(t, "# Fractions", l.Content)
	assert.Equal(t, "Untitled lesson", l.Title)
}

func TestChatService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session_id": "c1"})
	})
	mux.HandleFunc("/api/chat/sessions/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "What is 1/2 + 1/4?", body["message"])
		writeJSON(w, http.StatusOK, map[string]interface{}{"response": "3/4"})
	})
	client, _ := newTestClient(t, mux)
	svc := NewChatService(client)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, StartChatRequest{Topic: "fractions"})
	require.NoError(t, err)
	assert.Equal(t, "c1", sess.ID)
	assert.Equal(t, "fractions", sess.Topic)

	msg, err := svc.SendMessage(ctx, "c1", "  What is 1/2 + 1/4?  ")
	require.NoError(t, err)
	assert.Equal(t, "3/4", msg.Content)
	assert.Equal(t, "assistant", msg.Role)

	_, err = svc.SendMessage(ctx, "c1", "   ")
	assert.True(t, util.IsValidation(err))
}
