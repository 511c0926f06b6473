package dto

// ── courses ──

// CreateCourseRequest manual course entry
type CreateCourseRequest struct {
	AcademicYear    string `json:"academic_year"    binding:"omitempty,max=20"`
	Department      string `json:"department"       binding:"omitempty,max=50"`
	Semester        int    `json:"semester"         binding:"omitempty,min=1,max=8"`
	Section         string `json:"section"          binding:"required,max=10"`
	SubjectCode     string `json:"subject_code"     binding:"required,max=20"`
	Title           string `json:"title"            binding:"omitempty,max=200"`
	InstructorEmail string `json:"instructor_email" binding:"omitempty,email"`
}

// UpdateCourseRequest partial update
type UpdateCourseRequest struct {
	Title *string `json:"title" binding:"omitempty,max=200"`
}

// AssignInstructorRequest reassign the faculty member teaching a course
type AssignInstructorRequest struct {
	InstructorEmail string `json:"instructor_email" binding:"required,email"`
}

// CourseListRequest list filters
type CourseListRequest struct {
	PaginationRequest
	AcademicYear string `form:"academic_year" binding:"omitempty,max=20"`
	Department   string `form:"department"    binding:"omitempty,max=50"`
	Semester     int    `form:"semester"      binding:"omitempty,min=1,max=8"`
	Section      string `form:"section"       binding:"omitempty,max=10"`
	SubjectCode  string `form:"subject_code"  binding:"omitempty,max=20"`
}

// CourseResponse course
type CourseResponse struct {
	ID              string `json:"id"`
	AcademicYear    string `json:"academic_year"`
	Department      string `json:"department"`
	Semester        int    `json:"semester"`
	Section         string `json:"section"`
	SubjectCode     string `json:"subject_code"`
	Title           string `json:"title"`
	InstructorID    string `json:"instructor_id,omitempty"`
	InstructorEmail string `json:"instructor_email"`
	InstructorName  string `json:"instructor_name,omitempty"`
}
