package dto

// ── CO-PO mapping ──

// PutCoPoRequest full matrix for a subject: CO → PO → weight (number or string)
type PutCoPoRequest struct {
	Matrix map[string]map[string]interface{} `json:"matrix" binding:"required"`
}

// CoPoResponse stored matrix
type CoPoResponse struct {
	SubjectCode string                            `json:"subject_code"`
	Matrix      map[string]map[string]interface{} `json:"matrix"`
	UpdatedAt   string                            `json:"updated_at"`
}
