package models

import "time"

// Contract records a sale or rental agreement between a client and the
// agency for one property.
type Contract struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID string `gorm:"type:varchar(36);not null;index" json:"property_id"`
	ClientID   string `gorm:"type:varchar(36);not null;index" json:"client_id"`
	AgentID    string `gorm:"type:varchar(36);index" json:"agent_id,omitempty"`

	Type   ContractType   `gorm:"type:varchar(20);not null" json:"type"`
	Status ContractStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	Amount           float64 `gorm:"not null" json:"amount"`
	CommissionAmount float64 `gorm:"not null;default:0" json:"commission_amount"`

	SignedAt  *time.Time `json:"signed_at,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"index" json:"end_date,omitempty"`

	Audit
}

// ContractType distinguishes sales from rentals.
type ContractType string

const (
	ContractTypeSale   ContractType = "sale"
	ContractTypeRental ContractType = "rental"
)

// ContractStatus tracks the agreement lifecycle.
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

func (Contract) TableName() string {
	return "contracts"
}
