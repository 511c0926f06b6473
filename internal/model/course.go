package model

// Course one subject offered to one section in one academic year
type Course struct {
	CourseID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	AcademicYear    string  `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	Department      string  `gorm:"type:varchar(50);not null;default:''"           json:"department"`
	Semester        int     `gorm:"type:smallint;not null;default:1"               json:"semester"`
	Section         string  `gorm:"type:varchar(10);not null;default:''"           json:"section"`
	SubjectCode     string  `gorm:"type:varchar(20);not null"                      json:"subject_code"`
	Title           string  `gorm:"type:varchar(200);not null;default:''"          json:"title"`
	InstructorID    *string `gorm:"type:uuid"                                      json:"instructor_id,omitempty"`
	InstructorEmail string  `gorm:"type:varchar(255);not null;default:''"          json:"instructor_email"`
	BaseModel

	Instructor *User `gorm:"foreignKey:InstructorID;references:UserID" json:"instructor,omitempty"`
}

// TableName table name
func (Course) TableName() string { return "courses" }
