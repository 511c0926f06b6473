package model

// Enrollment status
const (
	StudentStatusActive   = "active"
	StudentStatusDetained = "detained"
	StudentStatusAlumni   = "alumni"
)

// ValidStudentStatus reports whether s is a known enrollment status
func ValidStudentStatus(s string) bool {
	return s == StudentStatusActive || s == StudentStatusDetained || s == StudentStatusAlumni
}

// Student keyed by institution roll number (upper-cased)
type Student struct {
	StudentID  string `gorm:"type:varchar(20);primaryKey"                json:"student_id"`
	Name       string `gorm:"type:varchar(100);not null"                 json:"name"`
	Department string `gorm:"type:varchar(50);not null;default:''"       json:"department"`
	Semester   int    `gorm:"type:smallint;not null;default:1"           json:"semester"`
	Section    string `gorm:"type:varchar(10);not null;default:''"       json:"section"`
	Status     string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	BaseModel
}

// TableName table name
func (Student) TableName() string { return "students" }
