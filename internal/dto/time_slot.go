package dto

// ── time slots ──

// CreateTimeSlotRequest class period
type CreateTimeSlotRequest struct {
	Code      string `json:"code"       binding:"required,max=20"`
	Name      string `json:"name"       binding:"required,min=1,max=50"`
	StartTime string `json:"start_time" binding:"required"` // "09:00"
	EndTime   string `json:"end_time"   binding:"required"` // "09:55"
}

// UpdateTimeSlotRequest partial update
type UpdateTimeSlotRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=50"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	IsActive  *bool   `json:"is_active"`
}

// TimeSlotResponse class period
type TimeSlotResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

// TimeSlotListRequest list filters
type TimeSlotListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}
