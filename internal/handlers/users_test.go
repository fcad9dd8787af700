package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"real-estate-crm/internal/auth"
	"real-estate-crm/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserRouter(t *testing.T) (*gin.Engine, *gorm.DB, *auth.TokenManager) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}))

	tm, err := auth.NewTokenManager("test-signing-key", time.Hour)
	assert.NoError(t, err)

	handler := NewUserHandler(db, zap.NewNop())

	r := gin.New()
	admin := r.Group("/api/admin", auth.RequireAuth(tm), auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", handler.List)
		admin.POST("/users", handler.Create)
		admin.PUT("/users/:id", handler.Update)
	}
	return r, db, tm
}

func userToken(t *testing.T, tm *auth.TokenManager, role models.Role) string {
	token, err := tm.Generate(&models.User{
		ID:    "caller-1",
		Email: "caller@example.com",
		Role:  role,
	})
	assert.NoError(t, err)
	return token
}

func TestCreateUser_NonAdminGets403AndNoRecordIsWritten(t *testing.T) {
	r, db, tm := setupUserRouter(t)

	body := `{"email":"new@example.com","password":"secret123","role":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken(t, tm, models.RoleAgent))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "new@example.com").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateUser_AdminSucceeds(t *testing.T) {
	r, db, tm := setupUserRouter(t)

	body := `{"email":"new@example.com","password":"secret123","display_name":"New Agent","role":"agent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken(t, tm, models.RoleAdmin))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	// The password hash never leaks in the response body.
	assert.NotContains(t, w.Body.String(), "password_hash")

	var stored models.User
	err := db.Where("email = ?", "new@example.com").First(&stored).Error
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAgent, stored.Role)
	assert.Equal(t, "caller-1", stored.CreatedBy)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestCreateUser_InvalidRoleRejected(t *testing.T) {
	r, _, tm := setupUserRouter(t)

	body := `{"email":"new@example.com","password":"secret123","role":"superuser"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken(t, tm, models.RoleAdmin))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers_RequiresAuthentication(t *testing.T) {
	r, _, _ := setupUserRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateUser_AdminCanDisableAccount(t *testing.T) {
	r, db, tm := setupUserRouter(t)

	// Provision through the API first.
	body := `{"email":"victim@example.com","password":"secret123","role":"viewer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken(t, tm, models.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.User
	assert.NoError(t, db.Where("email = ?", "victim@example.com").First(&created).Error)

	req = httptest.NewRequest(http.MethodPut, "/api/admin/users/"+created.ID,
		strings.NewReader(`{"disabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken(t, tm, models.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	assert.NoError(t, db.Where("id = ?", created.ID).First(&reloaded).Error)
	assert.True(t, reloaded.Disabled)
}
