package model

// Schedule sources
const (
	ScheduleSourceICS    = "ics"
	ScheduleSourceManual = "manual"
)

// CourseSchedule one weekly teaching slot of a faculty member in a term
type CourseSchedule struct {
	CourseScheduleID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_schedule_id"`
	UserID           string   `gorm:"type:uuid;not null"                             json:"user_id"`
	TermID           string   `gorm:"type:uuid;not null"                             json:"term_id"`
	SubjectCode      string   `gorm:"type:varchar(20);not null"                      json:"subject_code"`
	Section          string   `gorm:"type:varchar(10);not null;default:''"           json:"section"`
	DayOfWeek        int      `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime        string   `gorm:"type:time;not null"                             json:"start_time"`
	EndTime          string   `gorm:"type:time;not null"                             json:"end_time"`
	Weeks            IntArray `gorm:"type:int[]"                                     json:"weeks"`
	Source           string   `gorm:"type:varchar(20);not null;default:'ics'"        json:"source"`
	BaseModel
}

// TableName table name
func (CourseSchedule) TableName() string { return "course_schedules" }
