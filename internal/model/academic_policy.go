package model

// AcademicPolicy singleton row with the attendance and activity thresholds
type AcademicPolicy struct {
	Singleton              bool    `gorm:"primaryKey;default:true"   json:"-"`
	SafePercent            float64 `gorm:"not null;default:85"       json:"safe_percent"`
	CondonationPercent     float64 `gorm:"not null;default:75"       json:"condonation_percent"`
	ActivityPointsRequired int     `gorm:"not null;default:100"      json:"activity_points_required"`
	BaseModel
}

// TableName table name
func (AcademicPolicy) TableName() string { return "academic_policy" }
