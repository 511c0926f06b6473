package dto

import "time"

// ── question papers ──

// QuestionInput one question of a pattern
type QuestionInput struct {
	ID    string  `json:"id"    binding:"required,max=20"`
	Text  string  `json:"text"  binding:"omitempty,max=2000"`
	Marks float64 `json:"marks" binding:"required,gt=0"`
	CO    string  `json:"co"    binding:"required"`
	Level string  `json:"level" binding:"omitempty"`
}

// CreatePaperRequest draft a paper for (subject, exam)
type CreatePaperRequest struct {
	SubjectCode string          `json:"subject_code" binding:"required,max=20"`
	ExamLabel   string          `json:"exam_label"   binding:"required,max=50"`
	Questions   []QuestionInput `json:"questions"    binding:"required,min=1,dive"`
}

// UpdatePaperRequest replace the questions of a draft
type UpdatePaperRequest struct {
	Questions []QuestionInput `json:"questions" binding:"required,min=1,dive"`
	Version   int             `json:"version"   binding:"required,min=1"`
}

// PaperListRequest list filters
type PaperListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=draft submitted approved"`
}

// PaperResponse paper
type PaperResponse struct {
	ID          string          `json:"id"`
	SubjectCode string          `json:"subject_code"`
	ExamLabel   string          `json:"exam_label"`
	Questions   []QuestionInput `json:"questions"`
	MaxMarks    float64         `json:"max_marks"`
	Status      string          `json:"status"`
	SubmittedBy string          `json:"submitted_by,omitempty"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	ApprovedBy  string          `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	Version     int             `json:"version"`
}
