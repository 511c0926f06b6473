package model

import "time"

// Term status
const (
	TermStatusActive   = "active"
	TermStatusArchived = "archived"
)

// AcademicTerm one teaching term, e.g. "2025-26 ODD". At most one term is active.
type AcademicTerm struct {
	TermID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	AcademicYear string    `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive     bool      `gorm:"not null;default:false"                         json:"is_active"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	VersionedModel
}

// TableName table name
func (AcademicTerm) TableName() string { return "academic_terms" }
