package model

type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Subject    string `json:"subject,omitempty"`
	GradeLevel int    `json:"grade_level,omitempty"`
	Status     string `json:"status,omitempty"`
	Size       int64  `json:"size,omitempty"`
	URL        string `json:"url,omitempty"`
	MirrorURL  string `json:"mirror_url,omitempty"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// DocumentFromRecord 文件名优先级：filename -> original_filename -> name -> "document"
func DocumentFromRecord(r Record) Document {
	d := Document{
		ID:         r.String("id", "document_id", "_id"),
		Name:       r.String("filename", "original_filename", "name"),
		Subject:    r.String("subject"),
		GradeLevel: r.Int("grade_level", "grade"),
		Status:     r.String("status", "processing_status"),
		Size:       int64(r.Int("size", "file_size")),
		URL:        r.String("url", "file_url", "path"),
		UploadedAt: r.String("uploaded_at", "created_at"),
	}
	if d.Name == "" {
		d.Name = "document"
	}
	if d.Status == "" {
		d.Status = "uploaded"
	}
	return d
}

type StudentSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	GradeLevel int     `json:"grade_level,omitempty"`
	ClassName  string  `json:"class_name,omitempty"`
	Progress   float64 `json:"progress"`
	LastActive string  `json:"last_active,omitempty"`
}

// StudentFromRecord id 优先级：id -> student_id -> _id；姓名见 DisplayName
func StudentFromRecord(r Record) StudentSummary {
	s := StudentSummary{
		ID:         r.String("id", "student_id", "_id"),
		Name:       DisplayName(r, "Unknown student"),
		Email:      r.String("email"),
		GradeLevel: r.Int("grade_level", "grade"),
		ClassName:  r.String("class_name", "class", "section"),
		LastActive: r.String("last_active", "last_login"),
	}
	if p, ok := r.Float("progress", "overall_progress", "completion_rate"); ok {
		s.Progress = ClampPercent(p)
	}
	return s
}

// StudentUploadResult 批量导入学生的结果
type StudentUploadResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
	Rows    int      `json:"rows"`
}

func StudentUploadResultFromRecord(r Record) StudentUploadResult {
	res := StudentUploadResult{
		Created: r.Int("created", "created_count", "success_count", "students_created"),
		Skipped: r.Int("skipped", "skipped_count", "duplicates"),
		Errors:  r.Strings("errors", "failed"),
	}
	if len(res.Errors) == 0 {
		for _, e := range r.List("errors") {
			if s := e.String("error", "message"); s != "" {
				res.Errors = append(res.Errors, s)
			}
		}
	}
	return res
}
