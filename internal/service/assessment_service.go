package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"net/url"
	"strconv"
)

type AssessmentService struct {
	Client *apiclient.Client
}

func NewAssessmentService(client *apiclient.Client) *AssessmentService {
	return &AssessmentService{Client: client}
}

type ConfigFilter struct {
	Subject    string
	GradeLevel int
}

func (f ConfigFilter) query() url.Values {
	q := url.Values{}
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	if f.GradeLevel > 0 {
		q.Set("grade_level", strconv.Itoa(f.GradeLevel))
	}
	return q
}

func configPath(id string) string {
	return "/assessments/configs/" + url.PathEscape(id)
}

func (s *AssessmentService) ListConfigs(ctx context.Context, filter ConfigFilter) ([]model.AssessmentConfig, error) {
	records, err := fetchRecords(ctx, s.Client, get("/assessments/configs", filter.query()), "configs")
	if err != nil {
		return nil, err
	}
	configs := make([]model.AssessmentConfig, 0, len(records))
	for _, r := range records {
		configs = append(configs, model.AssessmentConfigFromRecord(r))
	}
	return configs, nil
}

func (s *AssessmentService) GetConfig(ctx context.Context, id string) (*model.AssessmentConfig, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	r, err := fetchRecord(ctx, s.Client, get(configPath(id), nil))
	if err != nil {
		return nil, err
	}
	cfg := model.AssessmentConfigFromRecord(unwrapObject(r, "config"))
	return &cfg, nil
}

func (s *AssessmentService) CreateConfig(ctx context.Context, in model.ConfigInput) (*model.AssessmentConfig, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post("/assessments/configs", in))
	if err != nil {
		return nil, err
	}
	cfg := model.AssessmentConfigFromRecord(unwrapObject(r, "config"))
	return &cfg, nil
}

func (s *AssessmentService) UpdateConfig(ctx context.Context, id string, in model.ConfigInput) (*model.AssessmentConfig, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, put(configPath(id), in))
	if err != nil {
		return nil, err
	}
	cfg := model.AssessmentConfigFromRecord(unwrapObject(r, "config"))
	if cfg.ID == "" {
		cfg.ID = id
	}
	return &cfg, nil
}

func (s *AssessmentService) DeleteConfig(ctx context.Context, id string) error {
	if id == "" {
		return util.Required("id")
	}
	return s.Client.Delete(ctx, configPath(id))
}

type GenerateRequest struct {
	QuestionCount int    `json:"question_count,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
}

// GenerateQuestions 触发远端 AI 按配置生成题目
func (s *AssessmentService) GenerateQuestions(ctx context.Context, id string, req GenerateRequest) ([]model.Question, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	records, err := fetchRecords(ctx, s.Client, post(configPath(id)+"/generate", req), "questions", "generated_questions")
	if err != nil {
		return nil, err
	}
	return questionsFrom(records), nil
}

func (s *AssessmentService) ListQuestions(ctx context.Context, id string) ([]model.Question, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	records, err := fetchRecords(ctx, s.Client, get(configPath(id)+"/questions", nil), "questions")
	if err != nil {
		return nil, err
	}
	return questionsFrom(records), nil
}

// AddQuestion 创建题目，并在重新拉取之前先追加到 cfg.Questions
func (s *AssessmentService) AddQuestion(ctx context.Context, cfg *model.AssessmentConfig, in model.QuestionInput) (*model.Question, error) {
	if cfg == nil || cfg.ID == "" {
		return nil, util.Required("config")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post(configPath(cfg.ID)+"/questions", in))
	if err != nil {
		return nil, err
	}
	q := model.QuestionFromRecord(unwrapObject(r, "question"))
	if q.Text == "" {
		q.Text = in.Question
	}
	cfg.Questions = append(cfg.Questions, q)
	cfg.QuestionCount = len(cfg.Questions)
	return &q, nil
}

func questionsFrom(records []model.Record) []model.Question {
	out := make([]model.Question, 0, len(records))
	for _, r := range records {
		out = append(out, model.QuestionFromRecord(r))
	}
	return out
}

// unwrapObject {"config": {...}} 这类单键包装
func unwrapObject(r model.Record, keys ...string) model.Record {
	if inner := r.Object(keys...); inner != nil {
		return inner
	}
	return r
}
