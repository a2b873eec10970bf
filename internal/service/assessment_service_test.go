package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentService_ListConfigs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assessments/configs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mathematics", r.URL.Query().Get("subject"))
		assert.Equal(t, "5", r.URL.Query().Get("grade_level"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"configs": []map[string]interface{}{
					{"id": "c1", "name": "Fractions", "subject": "Mathematics", "grade_level": 5},
					{"id": "c2", "topic": "Decimals", "difficulty": "HARD"},
					{"id": "c3"},
				},
			},
		})
	})
	client, _ := newTestClient(t, mux)

	configs, err := NewAssessmentService(client).ListConfigs(context.Background(), ConfigFilter{Subject: "Mathematics", GradeLevel: 5})
	require.NoError(t, err)
	require.Len(t, configs, 3)
	assert.Equal(t, "Fractions", configs[0].Title)
	assert.Equal(t, "Decimals", configs[1].Title)
	assert.Equal(t, model.Hard, configs[1].Difficulty)
	assert.Equal(t, "Untitled", configs[2].Title)
	assert.Equal(t, "draft", configs[2].Status)
}

func TestAssessmentService_CreateConfigDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assessments/configs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "medium", body["difficulty"])
		assert.EqualValues(t, 10, body["question_count"])
		body["id"] = "new"
		writeJSON(w, http.StatusCreated, map[string]interface{}{"config": body})
	})
	client, _ := newTestClient(t, mux)

	cfg, err := NewAssessmentService(client).CreateConfig(context.Background(), model.ConfigInput{
		Name: "Week 3", Subject: "Science", GradeLevel: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.ID)
	assert.Equal(t, "Week 3", cfg.Title)
	assert.Equal(t, 10, cfg.QuestionCount)
}

func TestAssessmentService_CreateConfigValidation(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())
	svc := NewAssessmentService(client)

	_, err := svc.CreateConfig(context.Background(), model.ConfigInput{GradeLevel: 4})
	assert.True(t, util.IsValidation(err))
	_, err = svc.CreateConfig(context.Background(), model.ConfigInput{Subject: "Art", GradeLevel: 13})
	assert.True(t, util.IsValidation(err))
	_, err = svc.CreateConfig(context.Background(), model.ConfigInput{Subject: "Art", GradeLevel: 3, Difficulty: "brutal"})
	assert.True(t, util.IsValidation(err))
}

func TestAssessmentService_AddQuestionAppends(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assessments/configs/c1/questions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"question": map[string]interface{}{"id": "q9"}})
	})
	client, _ := newTestClient(t, mux)

	cfg := &model.AssessmentConfig{ID: "c1", Questions: []model.Question{{ID: "q1"}}}
	q, err := NewAssessmentService(client).AddQuestion(context.Background(), cfg, model.QuestionInput{
		Question: "What is 1/2 + 1/4?",
		Options:  []string{"3/4", "2/6"},
	})
	require.NoError(t, err)
	assert.Equal(t, "q9", q.ID)
	assert.Equal(t, "What is 1/2 + 1/4?", q.Text)
	require.Len(t, cfg.Questions, 2)
	assert.Equal(t, 2, cfg.QuestionCount)
}

func TestAssessmentService_GenerateQuestionsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assessments/configs/c1/generate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "model unavailable"})
	})
	client, _ := newTestClient(t, mux)

	_, err := NewAssessmentService(client).GenerateQuestions(context.Background(), "c1", GenerateRequest{})
	var failed *apiclient.RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 500, failed.Status)
	assert.Equal(t, "model unavailable", failed.Message)
}
