package model

// TimeSlot class period, e.g. code "P1" 09:00-10:00
type TimeSlot struct {
	TimeSlotID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_slot_id"`
	Code       string `gorm:"type:varchar(20);not null"                      json:"code"`
	Name       string `gorm:"type:varchar(50);not null"                      json:"name"`
	StartTime  string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime    string `gorm:"type:time;not null"                             json:"end_time"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName table name
func (TimeSlot) TableName() string { return "time_slots" }
