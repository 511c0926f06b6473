package model

// MarkRecord obtained scores of one student in one exam of one subject.
// RecordID is derived from (exam, subject, student) so a resubmission overwrites.
type MarkRecord struct {
	RecordID    string   `gorm:"type:varchar(120);primaryKey" json:"record_id"`
	ExamLabel   string   `gorm:"type:varchar(50);not null"    json:"exam_label"`
	SubjectCode string   `gorm:"type:varchar(20);not null"    json:"subject_code"`
	StudentID   string   `gorm:"type:varchar(20);not null"    json:"student_id"`
	Scores      ScoreMap `gorm:"type:jsonb;not null"          json:"scores"`
	Total       float64  `gorm:"not null;default:0"           json:"total"`
	EnteredBy   *string  `gorm:"type:uuid"                    json:"entered_by,omitempty"`
	BaseModel
}

// TableName table name
func (MarkRecord) TableName() string { return "mark_records" }
