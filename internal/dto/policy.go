package dto

// ── academic policy ──

// UpdatePolicyRequest partial update of the thresholds
type UpdatePolicyRequest struct {
	SafePercent            *float64 `json:"safe_percent"             binding:"omitempty,gt=0,lte=100"`
	CondonationPercent     *float64 `json:"condonation_percent"      binding:"omitempty,gt=0,lte=100"`
	ActivityPointsRequired *int     `json:"activity_points_required" binding:"omitempty,min=0,max=1000"`
}

// PolicyResponse thresholds in force
type PolicyResponse struct {
	SafePercent            float64 `json:"safe_percent"`
	CondonationPercent     float64 `json:"condonation_percent"`
	ActivityPointsRequired int     `json:"activity_points_required"`
	UpdatedAt              string  `json:"updated_at"`
}
