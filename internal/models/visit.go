package models

import "time"

// Visit is a scheduled property showing.
type Visit struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID string `gorm:"type:varchar(36);not null;index" json:"property_id"`
	ClientID   string `gorm:"type:varchar(36);not null;index" json:"client_id"`
	AgentID    string `gorm:"type:varchar(36);index" json:"agent_id,omitempty"`

	ScheduledAt time.Time   `gorm:"not null;index" json:"scheduled_at"`
	Status      VisitStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`

	Feedback string `gorm:"type:text" json:"feedback,omitempty"`
	Rating   *int   `json:"rating,omitempty"`

	Audit
}

// VisitStatus tracks the showing outcome.
type VisitStatus string

const (
	VisitStatusScheduled VisitStatus = "scheduled"
	VisitStatusCompleted VisitStatus = "completed"
	VisitStatusCancelled VisitStatus = "cancelled"
	VisitStatusNoShow    VisitStatus = "no_show"
)

func (Visit) TableName() string {
	return "visits"
}
