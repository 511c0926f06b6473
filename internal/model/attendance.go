package model

import "time"

// Attendance status
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// AttendanceRecord presence of one student in one class session.
// RecordID is the session key plus the student id, so each student has at most one
// record per (date, section, subject, slot).
type AttendanceRecord struct {
	RecordID    string    `gorm:"type:varchar(160);primaryKey" json:"record_id"`
	SessionID   string    `gorm:"type:varchar(140);not null"   json:"session_id"`
	Date        time.Time `gorm:"type:date;not null"           json:"date"`
	Section     string    `gorm:"type:varchar(10);not null"    json:"section"`
	SubjectCode string    `gorm:"type:varchar(20);not null"    json:"subject_code"`
	TimeSlot    string    `gorm:"type:varchar(20);not null"    json:"time_slot"`
	StudentID   string    `gorm:"type:varchar(20);not null"    json:"student_id"`
	Status      string    `gorm:"type:varchar(10);not null"    json:"status"`
	MarkedBy    *string   `gorm:"type:uuid"                    json:"marked_by,omitempty"`
	BaseModel
}

// TableName table name
func (AttendanceRecord) TableName() string { return "attendance_records" }

// ClassSession log of one marked class. Revision increases on every overwrite.
type ClassSession struct {
	SessionID    string      `gorm:"type:varchar(140);primaryKey" json:"session_id"`
	Date         time.Time   `gorm:"type:date;not null"           json:"date"`
	Section      string      `gorm:"type:varchar(10);not null"    json:"section"`
	SubjectCode  string      `gorm:"type:varchar(20);not null"    json:"subject_code"`
	TimeSlot     string      `gorm:"type:varchar(20);not null"    json:"time_slot"`
	PresentCount int         `gorm:"not null;default:0"           json:"present_count"`
	AbsentCount  int         `gorm:"not null;default:0"           json:"absent_count"`
	Absentees    StringArray `gorm:"type:text[];not null"         json:"absentees"`
	MarkedBy     *string     `gorm:"type:uuid"                    json:"marked_by,omitempty"`
	Revision     int         `gorm:"not null;default:1"           json:"revision"`
	BaseModel
}

// TableName table name
func (ClassSession) TableName() string { return "class_sessions" }

// AttendanceTally aggregate row: classes held and attended per student per subject
type AttendanceTally struct {
	StudentID   string `json:"student_id"`
	SubjectCode string `json:"subject_code"`
	Total       int    `json:"total"`
	Attended    int    `json:"attended"`
}
