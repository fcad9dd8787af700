package models

// User is an account that can sign in to the CRM. The role claim issued
// at login is taken from Role and re-checked server-side on every request.
type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string `gorm:"type:varchar(255)" json:"display_name,omitempty"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'viewer';index" json:"role"`
	AvatarURL    string `gorm:"type:text" json:"avatar_url,omitempty"`
	Disabled     bool   `gorm:"not null;default:false" json:"disabled"`

	Audit
}

// Role is the authorization level attached to a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleViewer:
		return true
	}
	return false
}

func (User) TableName() string {
	return "users"
}
