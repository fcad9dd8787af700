package models

// Property is a listing managed by the agency.
type Property struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Type   PropertyType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Status PropertyStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`

	Price     float64  `gorm:"not null;index" json:"price"`
	Area      *float64 `json:"area,omitempty"`
	Address   string   `gorm:"type:varchar(500)" json:"address,omitempty"`
	City      string   `gorm:"type:varchar(100);index" json:"city,omitempty"`
	Bedrooms  *int     `gorm:"index" json:"bedrooms,omitempty"`
	Bathrooms *int     `json:"bathrooms,omitempty"`

	Features StringList `gorm:"type:text" json:"features"`
	Photos   StringList `gorm:"type:text" json:"photos"`

	// Owning agent. Stored as an opaque id: no FK constraint, a dangling
	// reference only shows up when the lookup returns empty.
	AgentID string `gorm:"type:varchar(36);index" json:"agent_id,omitempty"`

	Audit
}

// PropertyType classifies the listing.
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

// PropertyStatus tracks the sales lifecycle of a listing.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusReserved  PropertyStatus = "reserved"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
)

func (Property) TableName() string {
	return "properties"
}

// IsAvailable reports whether the property can still be offered.
func (p *Property) IsAvailable() bool {
	return p.Status == PropertyStatusAvailable
}
