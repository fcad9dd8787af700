package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"real-estate-crm/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(t *testing.T) (*gin.Engine, *TokenManager) {
	gin.SetMode(gin.TestMode)
	tm, err := NewTokenManager("test-signing-key", time.Hour)
	assert.NoError(t, err)

	r := gin.New()
	r.GET("/protected", RequireAuth(tm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": ActorID(c)})
	})
	r.GET("/agent-only", RequireAuth(tm), RequireRole(models.RoleAgent), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, tm
}

func tokenFor(t *testing.T, tm *TokenManager, role models.Role) string {
	token, err := tm.Generate(&models.User{
		ID:    "user-1",
		Email: "user@example.com",
		Role:  role,
	})
	assert.NoError(t, err)
	return token
}

func TestRequireAuth_MissingTokenRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_InvalidTokenRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidTokenPasses(t *testing.T) {
	r, tm := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.RoleViewer))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRequireRole_WrongRoleGets403(t *testing.T) {
	r, tm := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/agent-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.RoleViewer))
	r.ServeHTTP(w, req)

	// Authenticated but underprivileged is 403, not 401.
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_MatchingRolePasses(t *testing.T) {
	r, tm := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/agent-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.RoleAgent))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_AdminPassesEveryCheck(t *testing.T) {
	r, tm := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/agent-only", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tm, models.RoleAdmin))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTokenManager_ExpiredTokenRejected(t *testing.T) {
	tm, err := NewTokenManager("test-signing-key", -time.Minute)
	assert.NoError(t, err)

	token := tokenFor(t, tm, models.RoleAgent)
	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_EmptyKeyRejected(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
