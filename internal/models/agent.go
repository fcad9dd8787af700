package models

// Agent is a member of the sales team.
type Agent struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);not null;index" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone string `gorm:"type:varchar(50)" json:"phone,omitempty"`

	CommissionRate float64    `gorm:"not null;default:0" json:"commission_rate"`
	Specialties    StringList `gorm:"type:text" json:"specialties"`
	AvatarURL      string     `gorm:"type:text" json:"avatar_url,omitempty"`
	Active         bool       `gorm:"not null;default:true;index" json:"active"`

	// Aggregate performance counters, recomputed by the scheduler from
	// contracts, properties and visits. Never written by the API directly.
	TotalSales     int64   `gorm:"not null;default:0" json:"total_sales"`
	TotalRevenue   float64 `gorm:"not null;default:0" json:"total_revenue"`
	ActiveListings int64   `gorm:"not null;default:0" json:"active_listings"`
	VisitsHandled  int64   `gorm:"not null;default:0" json:"visits_handled"`

	Audit
}

func (Agent) TableName() string {
	return "agents"
}
