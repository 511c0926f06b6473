package model

import "time"

// Review status shared by condonation requests and activity points
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// CondonationRequest a student's request to condone an attendance shortage
type CondonationRequest struct {
	RequestID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	StudentID      string     `gorm:"type:varchar(20);not null"                      json:"student_id"`
	SubjectCode    string     `gorm:"type:varchar(20);not null"                      json:"subject_code"`
	DocumentURL    string     `gorm:"type:text;not null"                             json:"document_url"`
	CurrentPercent float64    `gorm:"not null"                                       json:"current_percent"`
	Reason         string     `gorm:"type:text;not null;default:''"                  json:"reason"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReviewedBy     *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `                                                      json:"reviewed_at,omitempty"`
	ReviewNote     string     `gorm:"type:text;not null;default:''"                  json:"review_note"`
	BaseModel
}

// TableName table name
func (CondonationRequest) TableName() string { return "condonation_requests" }
