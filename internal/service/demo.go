package service

import "edu_portal/internal/model"

// 首页部件拉取失败时展示的演示数据

func demoTeacherAnalytics() interface{} {
	return &model.AnalyticsSnapshot{
		AverageScore:     78.5,
		Progress:         64,
		CompletedLessons: 32,
		TotalLessons:     50,
		ActiveStudents:   24,
		TotalStudents:    28,
		KnowledgeGaps:    []string{"Fractions", "Reading comprehension"},
		Strengths:        []string{"Geometry"},
		Scores: []model.SubjectScore{
			{Subject: "Mathematics", Score: 81},
			{Subject: "Science", Score: 76},
		},
	}
}

func demoSchoolAnalytics() interface{} {
	return &model.AnalyticsSnapshot{
		AverageScore:   74.2,
		Progress:       58,
		ActiveStudents: 412,
		TotalStudents:  480,
		Scores: []model.SubjectScore{
			{Subject: "English", Score: 72},
			{Subject: "Mathematics", Score: 77},
			{Subject: "Science", Score: 73},
		},
	}
}

func demoStudentAnalytics() interface{} {
	return &model.AnalyticsSnapshot{
		AverageScore:     82,
		Progress:         45,
		CompletedLessons: 9,
		TotalLessons:     20,
		TimeSpentMinutes: 310,
		KnowledgeGaps:    []string{"Long division"},
		Strengths:        []string{"Multiplication"},
	}
}

func demoConfigs() interface{} {
	return []model.AssessmentConfig{
		{ID: "demo-1", Title: "Fractions check-in", Subject: "Mathematics", GradeLevel: 5, Topic: "Fractions", Difficulty: model.Medium, QuestionCount: 10, Status: "draft"},
		{ID: "demo-2", Title: "Ecosystems quiz", Subject: "Science", GradeLevel: 5, Topic: "Ecosystems", Difficulty: model.Easy, QuestionCount: 8, Status: "published"},
	}
}

func demoStudents() interface{} {
	return []model.StudentSummary{
		{ID: "demo-s1", Name: "Ana Silva", GradeLevel: 5, Progress: 72},
		{ID: "demo-s2", Name: "Ben Okafor", GradeLevel: 5, Progress: 48},
		{ID: "demo-s3", Name: "Chen Li", GradeLevel: 5, Progress: 90},
	}
}

func demoDocuments() interface{} {
	return []model.Document{
		{ID: "demo-d1", Name: "fractions-unit.pdf", Subject: "Mathematics", GradeLevel: 5, Status: "processed"},
	}
}

func demoPaths() interface{} {
	steps := []model.LearningStep{
		{ID: "demo-step-1", Index: 0, Title: "What is a fraction?", Status: model.StepCompleted},
		{ID: "demo-step-2", Index: 1, Title: "Equivalent fractions", Status: model.StepInProgress},
		{ID: "demo-step-3", Index: 2, Title: "Adding fractions", Status: model.StepPending},
	}
	return []model.LearningPath{
		{ID: "demo-path", Title: "Mathematics learning path", Subject: "Mathematics", Progress: 33, CurrentStep: 1, Steps: steps},
	}
}
