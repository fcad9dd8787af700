package models

// Setting is a key/value pair for agency-wide configuration (company
// profile, branding asset URLs, contact details).
type Setting struct {
	Key         string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	Description string `gorm:"type:varchar(255)" json:"description,omitempty"`

	Audit
}

func (Setting) TableName() string {
	return "settings"
}
