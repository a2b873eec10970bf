package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"net/url"
)

type LessonService struct {
	Client *apiclient.Client
}

func NewLessonService(client *apiclient.Client) *LessonService {
	return &LessonService{Client: client}
}

// LessonRequest 由学习路径中的某一步生成课程
type LessonRequest struct {
	LearningPathID string `json:"learning_path_id"`
	StepID         string `json:"step_id,omitempty"`
	StepIndex      *int   `json:"step_index,omitempty"`
	Style          string `json:"style,omitempty"`
}

func (r LessonRequest) Validate() error {
	if r.LearningPathID == "" {
		return util.Required("learning_path_id")
	}
	if r.StepID == "" && r.StepIndex == nil {
		return &util.ValidationError{Field: "step_id", Message: "step_id or step_index is required"}
	}
	if r.StepIndex != nil && *r.StepIndex < 0 {
		return &util.ValidationError{Field: "step_index", Message: "must not be negative"}
	}
	return nil
}

func (s *LessonService) GenerateFromStep(ctx context.Context, req LessonRequest) (*model.Lesson, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post("/lessons/generate", req))
	if err != nil {
		return nil, err
	}
	l := model.LessonFromRecord(unwrapObject(r, "lesson"))
	if l.StepID == "" {
		l.StepID = req.StepID
	}
	return &l, nil
}

func (s *LessonService) Get(ctx context.Context, id string) (*model.Lesson, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	r, err := fetchRecord(ctx, s.Client, get("/lessons/"+url.PathEscape(id), nil))
	if err != nil {
		return nil, err
	}
	l := model.LessonFromRecord(unwrapObject(r, "lesson"))
	return &l, nil
}
