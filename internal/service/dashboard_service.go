package service

import (
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/session"
	"edu_portal/internal/util"
	"edu_portal/pkg/logger"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	Analytics   *AnalyticsService
	Assessments *AssessmentService
	Paths       *LearningPathService
	Students    *StudentService
	Documents   *DocumentService
}

func NewDashboardService(client *apiclient.Client, storage *StorageService) *DashboardService {
	return &DashboardService{
		Analytics:   NewAnalyticsService(client),
		Assessments: NewAssessmentService(client),
		Paths:       NewLearningPathService(client),
		Students:    NewStudentService(client),
		Documents:   NewDocumentService(client, storage),
	}
}

// widget 一个首页部件：fetch 取真实数据，demo 为失败时的替代
type widget struct {
	name  string
	fetch func(ctx context.Context) (interface{}, error)
	demo  func() interface{}
}

// assemble 并发拉取所有部件；认证失败直接返回，其余失败用演示数据替代
func assemble(ctx context.Context, role model.UserRole, widgets []widget) (*model.Dashboard, error) {
	d := &model.Dashboard{Role: role, Widgets: make(map[string]interface{}, len(widgets))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range widgets {
		w := w
		g.Go(func() error {
			v, err := w.fetch(gctx)
			if err != nil {
				if apiclient.IsAuthRequired(err) {
					return err
				}
				logger.Log.Warn("dashboard widget fell back to demo data",
					zap.String("role", string(role)),
					zap.String("widget", w.name),
					zap.Error(err))
				v = w.demo()
			}

			mu.Lock()
			defer mu.Unlock()
			d.Widgets[w.name] = v
			if err != nil {
				d.Demo = true
				d.Errors = append(d.Errors, fmt.Sprintf("%s: %v", w.name, err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(d.Errors)
	return d, nil
}

func (s *DashboardService) Teacher(ctx context.Context) (*model.Dashboard, error) {
	return assemble(ctx, model.Teacher, []widget{
		{"analytics", func(ctx context.Context) (interface{}, error) { return s.Analytics.Teacher(ctx) }, demoTeacherAnalytics},
		{"assessments", func(ctx context.Context) (interface{}, error) { return s.Assessments.ListConfigs(ctx, ConfigFilter{}) }, demoConfigs},
		{"students", func(ctx context.Context) (interface{}, error) { return s.Students.List(ctx, StudentFilter{}) }, demoStudents},
		{"documents", func(ctx context.Context) (interface{}, error) { return s.Documents.List(ctx, DocumentFilter{}) }, demoDocuments},
	})
}

func (s *DashboardService) Student(ctx context.Context, studentID string) (*model.Dashboard, error) {
	if studentID == "" {
		return nil, util.Required("student_id")
	}
	return assemble(ctx, model.Student, []widget{
		{"analytics", func(ctx context.Context) (interface{}, error) { return s.Analytics.Student(ctx, studentID) }, demoStudentAnalytics},
		{"learning_paths", func(ctx context.Context) (interface{}, error) { return s.Paths.ForStudent(ctx, studentID) }, demoPaths},
	})
}

func (s *DashboardService) Principal(ctx context.Context) (*model.Dashboard, error) {
	return assemble(ctx, model.Principal, []widget{
		{"school", func(ctx context.Context) (interface{}, error) { return s.Analytics.School(ctx) }, demoSchoolAnalytics},
		{"classes", func(ctx context.Context) (interface{}, error) { return s.Analytics.Class(ctx, "") }, demoTeacherAnalytics},
		{"students", func(ctx context.Context) (interface{}, error) { return s.Students.List(ctx, StudentFilter{}) }, demoStudents},
	})
}

// Parent childID 为孩子的学生 id
func (s *DashboardService) Parent(ctx context.Context, childID string) (*model.Dashboard, error) {
	if childID == "" {
		return nil, util.Required("student_id")
	}
	return assemble(ctx, model.Parent, []widget{
		{"progress", func(ctx context.Context) (interface{}, error) { return s.Analytics.StudentProgress(ctx, childID) }, demoStudentAnalytics},
		{"learning_paths", func(ctx context.Context) (interface{}, error) { return s.Paths.ForStudent(ctx, childID) }, demoPaths},
	})
}

// CurrentUserID 从凭证元数据中取当前用户 id，元数据缺失时退回 token 的 sub
func CurrentUserID(ctx context.Context, store *session.Store, role session.Role) (string, error) {
	meta, err := store.Metadata(ctx, role)
	if errors.Is(err, util.ErrCredentialNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if id := model.Record(meta).String("id", "user_id", "student_id", "_id"); id != "" {
		return id, nil
	}
	info, ok, err := store.TokenInfo(ctx, role)
	if err != nil || !ok {
		return "", err
	}
	return info.Subject, nil
}
