package model

import (
	"time"

	"gorm.io/datatypes"
)

// Paper workflow status: draft → submitted → approved
const (
	PaperStatusDraft     = "draft"
	PaperStatusSubmitted = "submitted"
	PaperStatusApproved  = "approved"
)

// Question one entry of a paper pattern
type Question struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Marks float64 `json:"marks"`
	CO    string  `json:"co"`
	Level string  `json:"level,omitempty"`
}

// QuestionPaper question pattern for one (subject, exam)
type QuestionPaper struct {
	PaperID     string                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"paper_id"`
	SubjectCode string                        `gorm:"type:varchar(20);not null"                      json:"subject_code"`
	ExamLabel   string                        `gorm:"type:varchar(50);not null"                      json:"exam_label"`
	Questions   datatypes.JSONSlice[Question] `gorm:"type:jsonb;not null"                            json:"questions"`
	Status      string                        `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	SubmittedBy *string                       `gorm:"type:uuid"                                      json:"submitted_by,omitempty"`
	SubmittedAt *time.Time                    `                                                      json:"submitted_at,omitempty"`
	ApprovedBy  *string                       `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt  *time.Time                    `                                                      json:"approved_at,omitempty"`
	VersionedModel
}

// TableName table name
func (QuestionPaper) TableName() string { return "question_papers" }

// MaxMarks sum of question marks
func (p *QuestionPaper) MaxMarks() float64 {
	var t float64
	for _, q := range p.Questions {
		t += q.Marks
	}
	return t
}

// QuestionIndex question id → question
func (p *QuestionPaper) QuestionIndex() map[string]Question {
	idx := make(map[string]Question, len(p.Questions))
	for _, q := range p.Questions {
		idx[q.ID] = q
	}
	return idx
}
