package dto

// ── faculty timetable ──

// ImportICSRequest import by URL when no file is uploaded
type ImportICSRequest struct {
	URL    string `json:"url"     binding:"omitempty,url"`
	TermID string `json:"term_id" binding:"omitempty,uuid"`
}

// ImportICSResponse imported rows
type ImportICSResponse struct {
	ImportedCount int              `json:"imported_count"`
	Skipped       int              `json:"skipped"`
	Entries       []TimetableEntry `json:"entries"`
}

// MyTimetableRequest query
type MyTimetableRequest struct {
	TermID string `form:"term_id" binding:"omitempty,uuid"`
}

// TimetableEntry one weekly teaching slot
type TimetableEntry struct {
	ID          string `json:"id,omitempty"`
	SubjectCode string `json:"subject_code"`
	Section     string `json:"section"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Weeks       []int  `json:"weeks"`
	Source      string `json:"source"`
}
