package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL INT[] ──

// IntArray maps a PostgreSQL INT[] column.
type IntArray []int

// Scan parses the {1,2,3} text form.
func (a *IntArray) Scan(src interface{}) error {
	s, err := arrayText(src, "IntArray")
	if err != nil {
		return err
	}
	if s == nil {
		*a = nil
		return nil
	}
	if *s == "" {
		*a = IntArray{}
		return nil
	}
	parts := strings.Split(*s, ",")
	arr := make(IntArray, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("IntArray.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, n)
	}
	*a = arr
	return nil
}

// Value renders the {1,2,3} text form.
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// ── PostgreSQL TEXT[] ──

// StringArray maps a PostgreSQL TEXT[] column holding identifiers
// (roll numbers, codes). Elements must not contain commas, quotes or braces.
type StringArray []string

// Scan parses the {a,b,c} text form.
func (a *StringArray) Scan(src interface{}) error {
	s, err := arrayText(src, "StringArray")
	if err != nil {
		return err
	}
	if s == nil {
		*a = nil
		return nil
	}
	if *s == "" {
		*a = StringArray{}
		return nil
	}
	parts := strings.Split(*s, ",")
	arr := make(StringArray, 0, len(parts))
	for _, p := range parts {
		arr = append(arr, strings.Trim(strings.TrimSpace(p), `"`))
	}
	*a = arr
	return nil
}

// Value renders the {a,b,c} text form.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

func arrayText(src interface{}, typeName string) (*string, error) {
	var s string
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return nil, fmt.Errorf("%s.Scan: unsupported type %T", typeName, src)
	}
	s = strings.Trim(s, "{}")
	return &s, nil
}

// ── JSONB score map ──

// ScoreMap question id → obtained score, stored as JSONB.
type ScoreMap map[string]float64

// Scan decodes the JSONB document.
func (m *ScoreMap) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("ScoreMap.Scan: unsupported type %T", src)
	}
	out := ScoreMap{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("ScoreMap.Scan: %w", err)
	}
	*m = out
	return nil
}

// Value encodes the map as JSON.
func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]float64(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Total sums every score.
func (m ScoreMap) Total() float64 {
	var t float64
	for _, v := range m {
		t += v
	}
	return t
}

// BaseModel audit columns embedded by every table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel audit columns plus soft delete
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel soft delete plus optimistic lock version
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
