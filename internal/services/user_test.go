package services

import (
	"testing"

	"real-estate-crm/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUserCreate_HashesPasswordAndValidatesRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	created, err := svc.Create(&models.User{
		Email: "agent@example.com",
		Role:  models.RoleAgent,
	}, "secret123", "admin-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "secret123", created.PasswordHash)

	_, err = svc.Create(&models.User{
		Email: "bad@example.com",
		Role:  "superuser",
	}, "secret123", "admin-1")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Create(&models.User{
		Email: "agent@example.com",
		Role:  models.RoleAgent,
	}, "secret123", "admin-1")
	assert.NoError(t, err)

	user, err := svc.Authenticate("agent@example.com", "secret123")
	assert.NoError(t, err)
	assert.NotNil(t, user)

	// Wrong password and unknown email both come back nil, not an error.
	user, err = svc.Authenticate("agent@example.com", "wrong")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Authenticate("nobody@example.com", "secret123")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserAuthenticate_DisabledAccountRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	created, err := svc.Create(&models.User{
		Email: "agent@example.com",
		Role:  models.RoleAgent,
	}, "secret123", "admin-1")
	assert.NoError(t, err)

	_, err = svc.Update(created.ID, map[string]interface{}{"disabled": true}, "admin-1")
	assert.NoError(t, err)

	user, err := svc.Authenticate("agent@example.com", "secret123")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserUpdate_PasswordRehashedRoleValidated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	created, err := svc.Create(&models.User{
		Email: "agent@example.com",
		Role:  models.RoleAgent,
	}, "secret123", "admin-1")
	assert.NoError(t, err)

	updated, err := svc.Update(created.ID, map[string]interface{}{
		"password": "newsecret",
	}, "admin-1")
	assert.NoError(t, err)
	assert.NotEqual(t, created.PasswordHash, updated.PasswordHash)

	user, err := svc.Authenticate("agent@example.com", "newsecret")
	assert.NoError(t, err)
	assert.NotNil(t, user)

	_, err = svc.Update(created.ID, map[string]interface{}{"role": "superuser"}, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUserGrantRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Create(&models.User{
		Email: "agent@example.com",
		Role:  models.RoleAgent,
	}, "secret123", "admin-1")
	assert.NoError(t, err)

	promoted, err := svc.GrantRole("agent@example.com", models.RoleAdmin, "crmctl")
	assert.NoError(t, err)
	assert.NotNil(t, promoted)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	missing, err := svc.GrantRole("nobody@example.com", models.RoleAdmin, "crmctl")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
