package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"net/url"
)

type AnalyticsService struct {
	Client *apiclient.Client
}

func NewAnalyticsService(client *apiclient.Client) *AnalyticsService {
	return &AnalyticsService{Client: client}
}

func studentAnalyticsPath(id string) string {
	return "/analytics/students/" + url.PathEscape(id)
}

func (s *AnalyticsService) snapshot(ctx context.Context, req apiclient.Request) (*model.AnalyticsSnapshot, error) {
	r, err := fetchRecord(ctx, s.Client, req)
	if err != nil {
		return nil, err
	}
	a := model.AnalyticsFromRecord(unwrapObject(r, "analytics", "summary"))
	return &a, nil
}

func (s *AnalyticsService) Student(ctx context.Context, studentID string) (*model.AnalyticsSnapshot, error) {
	if studentID == "" {
		return nil, util.Required("student_id")
	}
	a, err := s.snapshot(ctx, get(studentAnalyticsPath(studentID), nil))
	if err != nil {
		return nil, err
	}
	if a.SubjectID == "" {
		a.SubjectID = studentID
	}
	return a, nil
}

func (s *AnalyticsService) StudentProgress(ctx context.Context, studentID string) (*model.AnalyticsSnapshot, error) {
	if studentID == "" {
		return nil, util.Required("student_id")
	}
	a, err := s.snapshot(ctx, get(studentAnalyticsPath(studentID)+"/progress", nil))
	if err != nil {
		return nil, err
	}
	if a.SubjectID == "" {
		a.SubjectID = studentID
	}
	return a, nil
}

func (s *AnalyticsService) Teacher(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	return s.snapshot(ctx, get("/analytics/teacher", nil))
}

// Class classID 为空时返回当前教师的全部学生
func (s *AnalyticsService) Class(ctx context.Context, classID string) (*model.AnalyticsSnapshot, error) {
	q := url.Values{}
	if classID != "" {
		q.Set("class_id", classID)
	}
	return s.snapshot(ctx, get("/analytics/class", q))
}

// School 校长视角的全校汇总
func (s *AnalyticsService) School(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	return s.snapshot(ctx, get("/analytics/school", nil))
}
