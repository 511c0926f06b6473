package dto

// ── condonation and activity points ──

// CreateCondonationRequest request to condone an attendance shortage.
// StudentID is only honoured for admins submitting on behalf of a student.
type CreateCondonationRequest struct {
	StudentID   string `json:"student_id"   binding:"omitempty,max=20"`
	SubjectCode string `json:"subject_code" binding:"required,max=20"`
	DocumentURL string `json:"document_url" binding:"required,url"`
	Reason      string `json:"reason"       binding:"omitempty,max=1000"`
}

// ReviewRequest admin decision
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" binding:"omitempty,max=1000"`
}

// ReviewListRequest admin queue filters
type ReviewListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// CondonationResponse condonation request
type CondonationResponse struct {
	ID             string  `json:"id"`
	StudentID      string  `json:"student_id"`
	SubjectCode    string  `json:"subject_code"`
	DocumentURL    string  `json:"document_url"`
	CurrentPercent float64 `json:"current_percent"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	ReviewNote     string  `json:"review_note,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// CreateActivityRequest activity certificate claim
type CreateActivityRequest struct {
	StudentID      string `json:"student_id"      binding:"omitempty,max=20"`
	Title          string `json:"title"           binding:"required,min=2,max=200"`
	Category       string `json:"category"        binding:"omitempty,max=50"`
	Points         int    `json:"points"          binding:"required,min=1,max=100"`
	CertificateURL string `json:"certificate_url" binding:"required,url"`
}

// ActivityResponse activity claim
type ActivityResponse struct {
	ID             string `json:"id"`
	StudentID      string `json:"student_id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Points         int    `json:"points"`
	CertificateURL string `json:"certificate_url"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// ActivitySummaryResponse approved points against the requirement
type ActivitySummaryResponse struct {
	StudentID string             `json:"student_id"`
	Approved  int                `json:"approved"`
	Required  int                `json:"required"`
	Remaining int                `json:"remaining"`
	Items     []ActivityResponse `json:"items"`
}
