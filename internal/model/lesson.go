package model

type Lesson struct {
	ID              string   `json:"id"`
	StepID          string   `json:"step_id,omitempty"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Objectives      []string `json:"objectives,omitempty"`
	Activities      []string `json:"activities,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
}

// LessonFromRecord 正文优先级：content -> body -> markdown
func LessonFromRecord(r Record) Lesson {
	l := Lesson{
		ID:              r.String("id", "lesson_id", "_id"),
		StepID:          r.String("step_id", "learning_step_id"),
		Title:           r.String("title", "name"),
		Content:         r.String("content", "body", "markdown"),
		Objectives:      r.Strings("objectives", "learning_objectives"),
		Activities:      r.Strings("activities"),
		DurationMinutes: r.Int("duration_minutes", "duration", "estimated_minutes"),
	}
	if l.Title == "" {
		l.Title = "Untitled lesson"
	}
	// 活动有时是对象数组
	if len(l.Activities) == 0 {
		for _, a := range r.List("activities") {
			if s := a.String("title", "name", "description"); s != "" {
				l.Activities = append(l.Activities, s)
			}
		}
	}
	return l
}

type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

type ChatSession struct {
	ID       string        `json:"id"`
	Topic    string        `json:"topic,omitempty"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

// ChatMessageFromRecord 内容优先级：content -> message -> response -> reply
func ChatMessageFromRecord(r Record) ChatMessage {
	m := ChatMessage{
		Role:      r.String("role", "sender"),
		Content:   r.String("content", "message", "response", "reply"),
		CreatedAt: r.String("created_at", "timestamp"),
	}
	if m.Role == "" {
		m.Role = "assistant"
	}
	return m
}

func ChatSessionFromRecord(r Record) ChatSession {
	s := ChatSession{
		ID:    r.String("session_id", "id", "_id"),
		Topic: r.String("topic", "subject"),
	}
	for _, m := range r.List("messages", "history") {
		s.Messages = append(s.Messages, ChatMessageFromRecord(m))
	}
	return s
}
