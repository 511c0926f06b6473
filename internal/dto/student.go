package dto

// ── students ──

// CreateStudentRequest manual entry
type CreateStudentRequest struct {
	StudentID  string `json:"student_id" binding:"required,max=20"`
	Name       string `json:"name"       binding:"required,min=1,max=100"`
	Department string `json:"department" binding:"omitempty,max=50"`
	Semester   int    `json:"semester"   binding:"omitempty,min=1,max=8"`
	Section    string `json:"section"    binding:"omitempty,max=10"`
}

// UpdateStudentRequest partial update
type UpdateStudentRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=1,max=100"`
	Department *string `json:"department" binding:"omitempty,max=50"`
	Semester   *int    `json:"semester"   binding:"omitempty,min=1,max=8"`
	Section    *string `json:"section"    binding:"omitempty,max=10"`
}

// UpdateStudentStatusRequest enrollment status change
type UpdateStudentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active detained alumni"`
}

// StudentListRequest list filters
type StudentListRequest struct {
	PaginationRequest
	Department string `form:"department" binding:"omitempty,max=50"`
	Semester   int    `form:"semester"   binding:"omitempty,min=1,max=8"`
	Section    string `form:"section"    binding:"omitempty,max=10"`
	Status     string `form:"status"     binding:"omitempty,oneof=active detained alumni"`
	Keyword    string `form:"keyword"    binding:"omitempty,max=50"`
}

// StudentResponse student
type StudentResponse struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
	Section    string `json:"section"`
	Status     string `json:"status"`
}
