package dto

// ── academic terms ──

// CreateTermRequest create a term
type CreateTermRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	AcademicYear string `json:"academic_year" binding:"required,max=20"` // "2025-26"
	StartDate    string `json:"start_date"    binding:"required"`        // "2025-08-01"
	EndDate      string `json:"end_date"      binding:"required"`
}

// UpdateTermRequest partial update
type UpdateTermRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=20"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Status       *string `json:"status"        binding:"omitempty,oneof=active archived"`
}

// TermResponse term
type TermResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     bool   `json:"is_active"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
