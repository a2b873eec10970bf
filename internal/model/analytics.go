package model

import (
	"math"
	"sort"
)

// ClampPercent 把进度限制在 [0, 100]；0-1 之间的小数视为比例
func ClampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	if p > 0 && p < 1 {
		p *= 100
	}
	return math.Max(0, math.Min(100, p))
}

type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// AnalyticsSnapshot 学生/班级/教师的分析数据
type AnalyticsSnapshot struct {
	SubjectID        string         `json:"subject_id,omitempty"`
	AverageScore     float64        `json:"average_score"`
	Progress         float64        `json:"progress"`
	CompletedLessons int            `json:"completed_lessons"`
	TotalLessons     int            `json:"total_lessons"`
	TimeSpentMinutes int            `json:"time_spent_minutes"`
	ActiveStudents   int            `json:"active_students,omitempty"`
	TotalStudents    int            `json:"total_students,omitempty"`
	KnowledgeGaps    []string       `json:"knowledge_gaps,omitempty"`
	Strengths        []string       `json:"strengths,omitempty"`
	Scores           []SubjectScore `json:"scores,omitempty"`
}

// AnalyticsFromRecord 分数优先级：average_score -> avg_score -> score -> 0；进度限制在 [0,100]
func AnalyticsFromRecord(r Record) AnalyticsSnapshot {
	a := AnalyticsSnapshot{
		SubjectID:        r.String("student_id", "teacher_id", "class_id", "id"),
		CompletedLessons: r.Int("completed_lessons", "lessons_completed"),
		TotalLessons:     r.Int("total_lessons"),
		TimeSpentMinutes: r.Int("time_spent_minutes", "total_time_minutes", "time_spent"),
		ActiveStudents:   r.Int("active_students"),
		TotalStudents:    r.Int("total_students", "student_count"),
		KnowledgeGaps:    r.Strings("knowledge_gaps", "gaps", "weak_areas"),
		Strengths:        r.Strings("strengths", "strong_areas"),
	}
	a.AverageScore, _ = r.Float("average_score", "avg_score", "score")

	if p, ok := r.Float("progress", "overall_progress", "completion_rate"); ok {
		a.Progress = ClampPercent(p)
	} else if a.TotalLessons > 0 {
		a.Progress = ClampPercent(float64(a.CompletedLessons) * 100 / float64(a.TotalLessons))
	}

	if len(a.KnowledgeGaps) == 0 {
		for _, g := range r.List("knowledge_gaps", "gaps") {
			if s := g.String("topic", "concept", "name"); s != "" {
				a.KnowledgeGaps = append(a.KnowledgeGaps, s)
			}
		}
	}

	for _, s := range r.List("subject_scores", "scores", "subjects") {
		score, _ := s.Float("score", "average_score", "avg_score")
		a.Scores = append(a.Scores, SubjectScore{
			Subject: s.String("subject", "name"),
			Score:   score,
		})
	}
	if by := r.Object("scores_by_subject"); by != nil && len(a.Scores) == 0 {
		for subject := range by {
			score, _ := by.Float(subject)
			a.Scores = append(a.Scores, SubjectScore{Subject: subject, Score: score})
		}
		sort.Slice(a.Scores, func(i, j int) bool { return a.Scores[i].Subject < a.Scores[j].Subject })
	}
	return a
}

// Dashboard 某角色首页的聚合数据；任一部件失败时用演示数据替代并标记 Demo
type Dashboard struct {
	Role    UserRole               `json:"role"`
	Widgets map[string]interface{} `json:"widgets"`
	Demo    bool                   `json:"demo"`
	Errors  []string               `json:"errors,omitempty"`
}
