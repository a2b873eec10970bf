package model

import (
	"edu_portal/internal/util"
	"fmt"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// AssessmentConfig 测评配置，题目内容由远端 AI 根据配置生成
type AssessmentConfig struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Subject       string     `json:"subject"`
	GradeLevel    int        `json:"grade_level"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	QuestionTypes []string   `json:"question_types,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     string     `json:"created_at,omitempty"`
	Questions     []Question `json:"questions,omitempty"`
}

// ConfigTitle 优先级：name -> title -> topic -> "Untitled"
func ConfigTitle(r Record) string {
	if s := r.String("name", "title", "topic"); s != "" {
		return s
	}
	return "Untitled"
}

func AssessmentConfigFromRecord(r Record) AssessmentConfig {
	cfg := AssessmentConfig{
		ID:            r.String("id", "config_id", "_id"),
		Title:         ConfigTitle(r),
		Subject:       r.String("subject"),
		GradeLevel:    r.Int("grade_level", "grade", "gradeLevel"),
		Topic:         r.String("topic"),
		Difficulty:    Difficulty(strings.ToLower(r.String("difficulty", "difficulty_level"))),
		QuestionCount: r.Int("question_count", "num_questions", "total_questions"),
		QuestionTypes: r.Strings("question_types", "questionTypes"),
		Status:        r.String("status"),
		CreatedAt:     r.String("created_at", "createdAt"),
	}
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = Medium
	}
	if cfg.Status == "" {
		cfg.Status = "draft"
	}
	for _, q := range r.List("questions") {
		cfg.Questions = append(cfg.Questions, QuestionFromRecord(q))
	}
	if cfg.QuestionCount == 0 {
		cfg.QuestionCount = len(cfg.Questions)
	}
	return cfg
}

type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"question"`
	Type        string   `json:"question_type"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"correct_answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Points      int      `json:"points"`
}

// QuestionFromRecord 题干优先级：question -> text -> prompt
func QuestionFromRecord(r Record) Question {
	q := Question{
		ID:          r.String("id", "question_id", "_id"),
		Text:        r.String("question", "text", "prompt"),
		Type:        r.String("question_type", "type"),
		Options:     r.Strings("options", "choices"),
		Answer:      r.String("correct_answer", "answer"),
		Explanation: r.String("explanation"),
		Points:      r.Int("points", "marks"),
	}
	if q.Type == "" {
		q.Type = "multiple_choice"
		if len(q.Options) == 0 {
			q.Type = "short_answer"
		}
	}
	if q.Points == 0 {
		q.Points = 1
	}
	return q
}

// ConfigInput 创建/更新测评配置的表单
type ConfigInput struct {
	Name          string     `json:"name"`
	Subject       string     `json:"subject"`
	GradeLevel    int        `json:"grade_level"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	QuestionTypes []string   `json:"question_types,omitempty"`
	DocumentIDs   []string   `json:"document_ids,omitempty"`
}

func (in *ConfigInput) Validate() error {
	if strings.TrimSpace(in.Subject) == "" {
		return util.Required("subject")
	}
	if in.GradeLevel < 1 || in.GradeLevel > 12 {
		return &util.ValidationError{Field: "grade_level", Message: "must be between 1 and 12"}
	}
	if in.Difficulty == "" {
		in.Difficulty = Medium
	}
	if !in.Difficulty.Valid() {
		return &util.ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", in.Difficulty)}
	}
	if in.QuestionCount == 0 {
		in.QuestionCount = 10
	}
	if in.QuestionCount < 1 || in.QuestionCount > 100 {
		return &util.ValidationError{Field: "question_count", Message: "must be between 1 and 100"}
	}
	return nil
}

// QuestionInput 教师手动追加的题目
type QuestionInput struct {
	Question     string   `json:"question"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options,omitempty"`
	Answer       string   `json:"correct_answer,omitempty"`
	Points       int      `json:"points,omitempty"`
}

func (in *QuestionInput) Validate() error {
	if strings.TrimSpace(in.Question) == "" {
		return util.Required("question")
	}
	if in.QuestionType == "" {
		in.QuestionType = "short_answer"
		if len(in.Options) > 0 {
			in.QuestionType = "multiple_choice"
		}
	}
	if in.QuestionType == "multiple_choice" && len(in.Options) < 2 {
		return &util.ValidationError{Field: "options", Message: "multiple choice questions need at least two options"}
	}
	return nil
}
