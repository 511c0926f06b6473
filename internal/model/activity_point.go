package model

import "time"

// ActivityPoint a certificate claimed for extracurricular activity points
type ActivityPoint struct {
	ActivityID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_id"`
	StudentID      string     `gorm:"type:varchar(20);not null"                      json:"student_id"`
	Title          string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Category       string     `gorm:"type:varchar(50);not null;default:''"           json:"category"`
	Points         int        `gorm:"not null"                                       json:"points"`
	CertificateURL string     `gorm:"type:text;not null"                             json:"certificate_url"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReviewedBy     *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `                                                      json:"reviewed_at,omitempty"`
	BaseModel
}

// TableName table name
func (ActivityPoint) TableName() string { return "activity_points" }
