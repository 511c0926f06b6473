package dto

// ── attendance ──

// AttendanceEntry presence of one student
type AttendanceEntry struct {
	StudentID string `json:"student_id" binding:"required,max=20"`
	Present   bool   `json:"present"`
}

// MarkAttendanceRequest one class session. Either Entries lists every student,
// or Absentees lists the absent ones and the class roster defaults to present.
type MarkAttendanceRequest struct {
	Date        string            `json:"date"         binding:"required"` // YYYY-MM-DD
	Section     string            `json:"section"      binding:"required,max=10"`
	SubjectCode string            `json:"subject_code" binding:"required,max=20"`
	TimeSlot    string            `json:"time_slot"    binding:"required,max=20"`
	Entries     []AttendanceEntry `json:"entries"      binding:"omitempty,dive"`
	Absentees   []string          `json:"absentees"`
	Overwrite   bool              `json:"overwrite"`
}

// SessionQuery identifies one class session
type SessionQuery struct {
	Date        string `form:"date"         binding:"required"`
	Section     string `form:"section"      binding:"required"`
	SubjectCode string `form:"subject_code" binding:"required"`
	TimeSlot    string `form:"time_slot"    binding:"required"`
}

// SessionListRequest sessions of a class within an optional date range
type SessionListRequest struct {
	SubjectCode string `form:"subject_code" binding:"required"`
	Section     string `form:"section"`
	From        string `form:"from"`
	To          string `form:"to"`
}

// SubjectReportRequest class report query
type SubjectReportRequest struct {
	SubjectCode string `form:"subject_code" binding:"required"`
	Section     string `form:"section"`
}

// SessionResponse session log
type SessionResponse struct {
	SessionID    string   `json:"session_id"`
	Date         string   `json:"date"`
	Section      string   `json:"section"`
	SubjectCode  string   `json:"subject_code"`
	TimeSlot     string   `json:"time_slot"`
	PresentCount int      `json:"present_count"`
	AbsentCount  int      `json:"absent_count"`
	Absentees    []string `json:"absentees"`
	Revision     int      `json:"revision"`
	MarkedAt     string   `json:"marked_at"`
}

// SessionDetailResponse session log plus per-student rows
type SessionDetailResponse struct {
	Session SessionResponse         `json:"session"`
	Records []AttendanceRecordEntry `json:"records"`
}

// AttendanceRecordEntry per-student row of a session
type AttendanceRecordEntry struct {
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
}

// SubjectAttendance compliance of one student in one subject
type SubjectAttendance struct {
	StudentID   string  `json:"student_id"`
	SubjectCode string  `json:"subject_code"`
	Total       int     `json:"total"`
	Attended    int     `json:"attended"`
	Percent     float64 `json:"percent"`
	Status      string  `json:"status"` // safe | condonation_required | detention_risk | no_classes
	CanMiss     int     `json:"can_miss,omitempty"`
	MustAttend  int     `json:"must_attend,omitempty"`
}

// StudentAttendanceSummary every subject of one student
type StudentAttendanceSummary struct {
	StudentID          string              `json:"student_id"`
	SafePercent        float64             `json:"safe_percent"`
	CondonationPercent float64             `json:"condonation_percent"`
	Subjects           []SubjectAttendance `json:"subjects"`
}

// SubjectAttendanceReport every student of one class
type SubjectAttendanceReport struct {
	SubjectCode string              `json:"subject_code"`
	Section     string              `json:"section"`
	Sessions    int                 `json:"sessions"`
	Students    []SubjectAttendance `json:"students"`
}
