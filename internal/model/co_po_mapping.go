package model

import "gorm.io/datatypes"

// CoPoMatrix CO label → PO label → raw cell as uploaded (number or string)
type CoPoMatrix map[string]map[string]interface{}

// CoPoMapping CO→PO weight matrix of one subject
type CoPoMapping struct {
	SubjectCode string                         `gorm:"type:varchar(20);primaryKey" json:"subject_code"`
	Matrix      datatypes.JSONType[CoPoMatrix] `gorm:"type:jsonb;not null"         json:"matrix"`
	BaseModel
}

// TableName table name
func (CoPoMapping) TableName() string { return "co_po_mappings" }
