package models

// Client is a buyer or tenant lead managed by an agent.
type Client struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);not null;index" json:"name"`
	Email string `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone string `gorm:"type:varchar(50)" json:"phone,omitempty"`

	Status ClientStatus `gorm:"type:varchar(20);not null;default:'lead';index" json:"status"`

	BudgetMin *float64 `json:"budget_min,omitempty"`
	BudgetMax *float64 `json:"budget_max,omitempty"`

	// Preference filters used when matching listings.
	PreferredTypes  StringList `gorm:"type:text" json:"preferred_types"`
	PreferredCities StringList `gorm:"type:text" json:"preferred_cities"`

	// Where the lead came from (referral, website, walk_in, ...).
	Source string `gorm:"type:varchar(50);index" json:"source,omitempty"`

	AssignedAgentID string `gorm:"type:varchar(36);index" json:"assigned_agent_id,omitempty"`
	Notes           string `gorm:"type:text" json:"notes,omitempty"`

	Audit
}

// ClientStatus tracks the lead lifecycle.
type ClientStatus string

const (
	ClientStatusLead   ClientStatus = "lead"
	ClientStatusActive ClientStatus = "active"
	ClientStatusClosed ClientStatus = "closed"
)

func (Client) TableName() string {
	return "clients"
}
