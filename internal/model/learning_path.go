package model

import "fmt"

const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepCompleted  = "completed"
)

type LearningStep struct {
	ID               string   `json:"id"`
	Index            int      `json:"index"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Type             string   `json:"type,omitempty"`
	Status           string   `json:"status"`
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
	Objectives       []string `json:"objectives,omitempty"`
}

// LearningPath 服务端为学生生成的有序学习步骤
type LearningPath struct {
	ID          string         `json:"id"`
	StudentID   string         `json:"student_id"`
	Title       string         `json:"title"`
	Subject     string         `json:"subject"`
	Goal        string         `json:"goal,omitempty"`
	Progress    float64        `json:"progress"`
	CurrentStep int            `json:"current_step"`
	Steps       []LearningStep `json:"steps"`
}

// LearningStepFromRecord 标题优先级：title -> name -> "Step <n>"（n 从 1 开始）；状态缺省为 pending
func LearningStepFromRecord(r Record, index int) LearningStep {
	step := LearningStep{
		ID:               r.String("id", "step_id", "_id"),
		Index:            index,
		Title:            r.String("title", "name"),
		Description:      r.String("description", "summary"),
		Type:             r.String("type", "step_type", "content_type"),
		Status:           r.String("status"),
		EstimatedMinutes: r.Int("estimated_minutes", "duration_minutes", "duration"),
		Objectives:       r.Strings("objectives", "learning_objectives"),
	}
	if step.Title == "" {
		step.Title = fmt.Sprintf("Step %d", index+1)
	}
	if r.Bool("completed", "is_completed") {
		step.Status = StepCompleted
	}
	if step.Status == "" {
		step.Status = StepPending
	}
	return step
}

func LearningPathFromRecord(r Record) LearningPath {
	path := LearningPath{
		ID:        r.String("id", "path_id", "learning_path_id", "_id"),
		StudentID: r.String("student_id", "studentId"),
		Subject:   r.String("subject"),
		Goal:      r.String("goal", "learning_goal"),
	}
	path.Title = r.String("title", "name")
	if path.Title == "" {
		path.Title = "Learning path"
		if path.Subject != "" {
			path.Title = path.Subject + " learning path"
		}
	}

	for i, s := range r.List("steps", "path_steps", "modules") {
		path.Steps = append(path.Steps, LearningStepFromRecord(s, i))
	}

	completed := 0
	path.CurrentStep = -1
	for i, s := range path.Steps {
		if s.Status == StepCompleted {
			completed++
		} else if path.CurrentStep < 0 {
			path.CurrentStep = i
		}
	}
	if path.CurrentStep < 0 {
		path.CurrentStep = len(path.Steps)
	}

	if p, ok := r.Float("progress", "progress_percentage", "completion"); ok {
		path.Progress = ClampPercent(p)
	} else if len(path.Steps) > 0 {
		path.Progress = ClampPercent(float64(completed) * 100 / float64(len(path.Steps)))
	}
	return path
}
