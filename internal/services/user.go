package services

import (
	"errors"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidRole is returned when a user is created or updated with an
// unknown role value.
var ErrInvalidRole = errors.New("invalid role")

// UserService handles account provisioning and authentication against
// the users collection.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns accounts with profile fields, newest first.
func (s *UserService) List(limit int) ([]models.User, error) {
	var users []models.User
	err := s.db.Order("created_at DESC").Limit(listLimit(limit)).Find(&users).Error
	return users, err
}

// GetByID returns one account, or nil when the id does not exist.
func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the account with the given email, or nil.
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create provisions an account with a hashed password, assigns the role
// and writes the profile row in one step. Returns the record as stored.
func (s *UserService) Create(u *models.User, password, actorID string) (*models.User, error) {
	if !u.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.PasswordHash = hash
	ts := now()
	u.CreatedAt = ts
	u.UpdatedAt = ts
	u.CreatedBy = actorID
	u.UpdatedBy = actorID

	if err := s.db.Create(u).Error; err != nil {
		return nil, err
	}
	return s.GetByID(u.ID)
}

// Update shallow-merges account and profile fields. A "password" key in
// the patch is hashed before storage; a "role" key is validated. Returns
// the post-update record, or nil when the id does not exist.
func (s *UserService) Update(id string, patch map[string]interface{}, actorID string) (*models.User, error) {
	if raw, ok := patch["role"]; ok {
		role, _ := raw.(string)
		if !models.Role(role).Valid() {
			return nil, ErrInvalidRole
		}
	}
	if raw, ok := patch["password"]; ok {
		password, _ := raw.(string)
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		delete(patch, "password")
		patch["password_hash"] = hash
	}

	var updated *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", id).
			Updates(sanitizePatch(patch, actorID)).Error; err != nil {
			return err
		}

		var after models.User
		if err := tx.Where("id = ?", id).First(&after).Error; err != nil {
			return err
		}
		updated = &after
		return nil
	})
	return updated, err
}

// Delete removes the account unconditionally.
func (s *UserService) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.User{}).Error
}

// Authenticate checks the credentials and returns the account, or nil
// when the email is unknown, the password does not match, or the
// account is disabled.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Disabled {
		return nil, nil
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

// GrantRole promotes the account with the given email to the role.
// Returns the updated account, or nil when no account has that email.
// Used by the operational CLI.
func (s *UserService) GrantRole(email string, role models.Role, actorID string) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	user, err := s.GetByEmail(email)
	if err != nil || user == nil {
		return nil, err
	}
	return s.Update(user.ID, map[string]interface{}{"role": string(role)}, actorID)
}
