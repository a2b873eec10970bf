package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"net/url"
	"strings"
)

type LearningPathService struct {
	Client *apiclient.Client
}

func NewLearningPathService(client *apiclient.Client) *LearningPathService {
	return &LearningPathService{Client: client}
}

type GeneratePathRequest struct {
	StudentID  string   `json:"student_id"`
	Subject    string   `json:"subject"`
	GradeLevel int      `json:"grade_level,omitempty"`
	Goal       string   `json:"goal,omitempty"`
	Documents  []string `json:"document_ids,omitempty"`
}

func (r GeneratePathRequest) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return util.Required("student_id")
	}
	if strings.TrimSpace(r.Subject) == "" {
		return util.Required("subject")
	}
	return nil
}

// AdaptRequest 根据测评结果或反馈调整学习路径
type AdaptRequest struct {
	AssessmentID string             `json:"assessment_id,omitempty"`
	Feedback     string             `json:"feedback,omitempty"`
	Scores       map[string]float64 `json:"scores,omitempty"`
}

func (r AdaptRequest) Validate() error {
	if r.AssessmentID == "" && strings.TrimSpace(r.Feedback) == "" && len(r.Scores) == 0 {
		return &util.ValidationError{Message: "assessment_id, feedback or scores is required to adapt a path"}
	}
	return nil
}

func pathPath(id string) string {
	return "/learning-paths/" + url.PathEscape(id)
}

func (s *LearningPathService) Generate(ctx context.Context, req GeneratePathRequest) (*model.LearningPath, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post("/learning-paths/generate", req))
	if err != nil {
		return nil, err
	}
	p := model.LearningPathFromRecord(unwrapObject(r, "learning_path", "path"))
	if p.StudentID == "" {
		p.StudentID = req.StudentID
	}
	return &p, nil
}

func (s *LearningPathService) Adapt(ctx context.Context, id string, req AdaptRequest) (*model.LearningPath, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r, err := fetchRecord(ctx, s.Client, post(pathPath(id)+"/adapt", req))
	if err != nil {
		return nil, err
	}
	p := model.LearningPathFromRecord(unwrapObject(r, "learning_path", "path"))
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

func (s *LearningPathService) Get(ctx context.Context, id string) (*model.LearningPath, error) {
	if id == "" {
		return nil, util.Required("id")
	}
	r, err := fetchRecord(ctx, s.Client, get(pathPath(id), nil))
	if err != nil {
		return nil, err
	}
	p := model.LearningPathFromRecord(unwrapObject(r, "learning_path", "path"))
	return &p, nil
}

func (s *LearningPathService) ForStudent(ctx context.Context, studentID string) ([]model.LearningPath, error) {
	if studentID == "" {
		return nil, util.Required("student_id")
	}
	records, err := fetchRecords(ctx, s.Client, get("/learning-paths/student/"+url.PathEscape(studentID), nil), "learning_paths", "paths")
	if err != nil {
		return nil, err
	}
	paths := make([]model.LearningPath, 0, len(records))
	for _, r := range records {
		paths = append(paths, model.LearningPathFromRecord(r))
	}
	return paths, nil
}
