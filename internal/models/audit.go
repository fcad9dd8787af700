package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Audit carries the write-tracking fields shared by every entity.
// CreatedBy/UpdatedBy are stamped by the service layer with the acting
// user's id; the timestamps are set to server time on write.
type Audit struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
	CreatedBy string    `gorm:"type:varchar(64);not null" json:"created_by"`
	UpdatedBy string    `gorm:"type:varchar(64);not null" json:"updated_by"`
}

// StringList is a []string stored as a JSON column. Used for feature
// tags, photo URLs, specialties and preference filters.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
